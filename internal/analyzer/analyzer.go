// Package analyzer orchestrates one analysis run: fetch and certificate
// inspection in parallel, the checker battery over the immutable fetch
// result, aggregation and report building, all under a single deadline.
package analyzer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/seolens/seolens/internal/aggregator"
	"github.com/seolens/seolens/internal/certinspect"
	"github.com/seolens/seolens/internal/checker"
	"github.com/seolens/seolens/internal/fetcher"
	"github.com/seolens/seolens/internal/interfaces"
	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/report"
	"github.com/seolens/seolens/internal/utils"
)

type Config struct {
	// Timeout bounds a whole analysis; the fetcher and the certificate
	// inspector each inherit it as their own cap.
	Timeout time.Duration

	// Weights is the validated category weight table.
	Weights aggregator.Weights

	// Fetcher carries the fetch policy (user agent, redirect cap). Its
	// Timeout is always overridden by the analysis Timeout above.
	Fetcher fetcher.Config
}

func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
		Weights: aggregator.DefaultWeights(),
		Fetcher: fetcher.DefaultConfig(),
	}
}

var _ interfaces.Analyzer = (*DefaultAnalyzer)(nil)

// DefaultAnalyzer is the production implementation of interfaces.Analyzer.
type DefaultAnalyzer struct {
	cfg       Config
	fetcher   *fetcher.Fetcher
	inspector *certinspect.Inspector
	checkers  []checker.Checker
	logger    interfaces.Logger
}

// New wires an analyzer from its parts. Weight validation happens here so a
// bad table is rejected at startup, never at request time.
func New(cfg Config, wc interfaces.WebClient, logger interfaces.Logger) (*DefaultAnalyzer, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.Weights == nil {
		cfg.Weights = aggregator.DefaultWeights()
	}
	if err := cfg.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("analyzer config: %w", err)
	}

	fcfg := cfg.Fetcher
	fcfg.Timeout = cfg.Timeout
	f, err := fetcher.New(fcfg, wc, logger)
	if err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}

	componentLogger := logger.With(interfaces.Field{Key: "component", Value: "analyzer"})
	componentLogger.Info("created analyzer",
		interfaces.Field{Key: "timeout", Value: cfg.Timeout.String()},
		interfaces.Field{Key: "checkers", Value: len(checker.Defaults())})

	return &DefaultAnalyzer{
		cfg:       cfg,
		fetcher:   f,
		inspector: certinspect.New(cfg.Timeout, logger),
		checkers:  checker.Defaults(),
		logger:    componentLogger,
	}, nil
}

// Analyze runs the pipeline for url. checks optionally restricts the run to
// some categories; the weight table is renormalized over them so the overall
// score reflects only what was checked. It always returns a structured report
// for valid input; any unexpected internal fault is caught here and surfaces
// as a failed report rather than a panic.
func (a *DefaultAnalyzer) Analyze(ctx context.Context, rawURL string, checks ...model.Category) (rep *model.AnalysisReport, err error) {
	target, uerr := utils.ValidateTargetURL(rawURL)
	if uerr != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidURL, uerr)
	}

	selected, battery, weights, cerr := a.selectChecks(checks)
	if cerr != nil {
		return nil, cerr
	}

	req := &model.AnalysisRequest{
		URL:     target.String(),
		Timeout: a.cfg.Timeout,
		Checks:  selected,
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("analysis panicked",
				interfaces.Field{Key: "url", Value: req.URL},
				interfaces.Field{Key: "panic", Value: fmt.Sprint(r)})
			rep = report.BuildFailed(req, nil, nil, fmt.Sprintf("internal error: %v", r), time.Since(start))
			err = nil
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	a.logger.Info("starting analysis", interfaces.Field{Key: "url", Value: req.URL})

	// Fetch and certificate inspection are independent network I/O; run
	// them concurrently. The inspector dials its own connection so an
	// invalid certificate that aborts the fetch is still diagnosed.
	var (
		fetchRes *model.FetchResult
		certInfo *model.CertificateInfo
		wg       sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		fetchRes = a.fetcher.Fetch(ctx, req.URL)
	}()

	if target.Scheme == "https" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			certInfo = a.inspector.Inspect(ctx, target.Host)
		}()
	} else {
		certInfo = &model.CertificateInfo{Host: target.Hostname(), Checked: false}
	}
	wg.Wait()

	if fetchRes.Err != nil {
		reason := fetchRes.Err.Error()
		a.logger.Warn("analysis failed at fetch",
			interfaces.Field{Key: "url", Value: req.URL},
			interfaces.Field{Key: "kind", Value: string(fetchRes.Err.Kind)})
		return report.BuildFailed(req, fetchRes, certInfo, reason, time.Since(start)), nil
	}

	findings, partial := a.runCheckers(ctx, req, fetchRes, certInfo, battery)
	agg := aggregator.Aggregate(findings, weights)
	rep = report.Build(req, agg, partial, fetchRes, certInfo, time.Since(start))

	a.logger.Info("analysis finished",
		interfaces.Field{Key: "url", Value: req.URL},
		interfaces.Field{Key: "status", Value: string(rep.Status)},
		interfaces.Field{Key: "score", Value: agg.Score},
		interfaces.Field{Key: "findings", Value: len(findings)},
		interfaces.Field{Key: "elapsed", Value: rep.Elapsed.String()})

	return rep, nil
}

// selectChecks resolves the requested categories into the checker battery and
// weight table for one run. Empty means the full battery with the configured
// weights; a restricted run gets the weights renormalized over its categories.
func (a *DefaultAnalyzer) selectChecks(checks []model.Category) ([]model.Category, []checker.Checker, aggregator.Weights, error) {
	if len(checks) == 0 {
		return nil, a.checkers, a.cfg.Weights, nil
	}

	seen := make(map[model.Category]bool, len(checks))
	var selected []model.Category
	for _, cat := range checks {
		if !cat.Valid() {
			return nil, nil, nil, fmt.Errorf("%w: %q", model.ErrUnknownCategory, cat)
		}
		if seen[cat] {
			continue
		}
		seen[cat] = true
		selected = append(selected, cat)
	}

	var battery []checker.Checker
	for _, c := range a.checkers {
		if seen[c.Category()] {
			battery = append(battery, c)
		}
	}
	return selected, battery, a.cfg.Weights.Restrict(selected), nil
}

// runCheckers fans the checker battery out over the immutable fetch result
// and gathers findings back in detection order. A checker that does not
// finish before the deadline is reported as a partial failure and its
// category receives a penalty finding, so an incomplete check can never
// score as clean.
func (a *DefaultAnalyzer) runCheckers(ctx context.Context, req *model.AnalysisRequest,
	fetchRes *model.FetchResult, certInfo *model.CertificateInfo,
	battery []checker.Checker) ([]model.Finding, []model.PartialFailure) {

	var doc *goquery.Document
	if body := strings.TrimSpace(fetchRes.Body); body != "" {
		if d, err := goquery.NewDocumentFromReader(strings.NewReader(fetchRes.Body)); err == nil {
			doc = d
		} else {
			a.logger.Warn("body not parseable as HTML",
				interfaces.Field{Key: "url", Value: req.URL},
				interfaces.Field{Key: "error", Value: err.Error()})
		}
	}

	targetTools, _ := utils.NewURLTools(req.URL)
	in := checker.Input{
		TargetURL:  req.URL,
		TargetHost: targetTools.URL.Hostname(),
		Fetch:      fetchRes,
		Cert:       certInfo,
		Doc:        doc,
	}

	type slot struct {
		findings []model.Finding
		ok       bool
		done     bool
	}
	slots := make([]slot, len(battery))

	var wg sync.WaitGroup
	var mu sync.Mutex
	for i, c := range battery {
		wg.Add(1)
		go func(i int, c checker.Checker) {
			defer wg.Done()
			findings, ok := checker.Run(ctx, c, in)
			mu.Lock()
			slots[i] = slot{findings: findings, ok: ok, done: true}
			mu.Unlock()
		}(i, c)
	}

	// Wait for all checkers or the deadline, whichever comes first. Late
	// checkers only write their own slot, so abandoning them is safe.
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}

	var findings []model.Finding
	var partial []model.PartialFailure
	mu.Lock()
	defer mu.Unlock()
	for i, c := range battery {
		s := slots[i]
		switch {
		case !s.done:
			reason := "check did not complete before the analysis deadline"
			partial = append(partial, model.PartialFailure{Category: c.Category(), Reason: reason})
			findings = append(findings, checker.Penalty(c.Category(), reason))
		case !s.ok:
			reason := "check aborted on an internal error"
			if ctx.Err() != nil && len(s.findings) == 0 {
				reason = "check canceled before completion"
			}
			partial = append(partial, model.PartialFailure{Category: c.Category(), Reason: reason})
			if len(s.findings) == 0 {
				findings = append(findings, checker.Penalty(c.Category(), reason))
			} else {
				findings = append(findings, s.findings...)
			}
		default:
			findings = append(findings, s.findings...)
		}
	}
	return findings, partial
}

func (a *DefaultAnalyzer) Close() error {
	a.logger.Info("closing analyzer")
	return a.fetcher.Close()
}
