package analyzer_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/seolens/seolens/internal/aggregator"
	"github.com/seolens/seolens/internal/analyzer"
	"github.com/seolens/seolens/internal/fetcher"
	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/testutil"
	"github.com/seolens/seolens/internal/webclient"
)

const defectivePage = `<!DOCTYPE html>
<html>
<head>
<meta name="description" content="Too short.">
</head>
<body>
<p>hardly any text</p>
<a href="https://elsewhere.example/only">external</a>
</body>
</html>`

func newAnalyzer(t *testing.T, cfg analyzer.Config) *analyzer.DefaultAnalyzer {
	t.Helper()
	wc, err := webclient.NewNetHTTPClient(webclient.Config{}, &testutil.DummyLogger{}, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	a, err := analyzer.New(cfg, wc, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("analyzer.New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAnalyze_DefectivePage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, defectivePage)
	}))
	defer srv.Close()

	a := newAnalyzer(t, analyzer.Config{})
	rep, err := a.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if rep.Status != model.StatusCompleted {
		t.Errorf("status = %s, want completed", rep.Status)
	}
	if rep.Score == nil {
		t.Fatal("expected a score")
	}
	if *rep.Score >= 100 {
		t.Errorf("defective page scored %d", *rep.Score)
	}

	// A whole category of defects must land in its sub-score.
	if rep.CategoryScores[model.CategoryMeta] >= 100 {
		t.Errorf("meta sub-score = %d, want < 100", rep.CategoryScores[model.CategoryMeta])
	}

	// Missing title + short description = at least two meta findings.
	var metaFindings int
	for _, f := range rep.Findings {
		if f.Category == model.CategoryMeta {
			metaFindings++
		}
	}
	if metaFindings < 2 {
		t.Errorf("meta findings = %d, want >= 2", metaFindings)
	}

	// Plain HTTP target: the ssl category reports the missing certificate.
	var sslWarn bool
	for _, f := range rep.Findings {
		if f.Category == model.CategorySSL && f.Severity == model.SeverityWarning {
			sslWarn = true
		}
	}
	if !sslWarn {
		t.Error("expected plain HTTP ssl warning")
	}
}

func TestAnalyze_FindingsPrioritized(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, defectivePage)
	}))
	defer srv.Close()

	a := newAnalyzer(t, analyzer.Config{})
	rep, err := a.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	for i := 1; i < len(rep.Findings); i++ {
		if rep.Findings[i].Severity.Rank() > rep.Findings[i-1].Severity.Rank() {
			t.Fatalf("findings not ordered by severity at %d: %s after %s",
				i, rep.Findings[i].Severity, rep.Findings[i-1].Severity)
		}
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, defectivePage)
	}))
	defer srv.Close()

	a := newAnalyzer(t, analyzer.Config{})

	first, err := a.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	// Checker goroutines finish in arbitrary order; the report must not
	// depend on it.
	for i := 0; i < 5; i++ {
		again, err := a.Analyze(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if *again.Score != *first.Score {
			t.Fatalf("score varies across runs: %d vs %d", *again.Score, *first.Score)
		}
		if len(again.Findings) != len(first.Findings) {
			t.Fatalf("finding count varies: %d vs %d", len(again.Findings), len(first.Findings))
		}
		for j := range again.Findings {
			if again.Findings[j].Message != first.Findings[j].Message {
				t.Fatalf("finding order varies at %d: %q vs %q",
					j, again.Findings[j].Message, first.Findings[j].Message)
			}
		}
	}
}

func TestAnalyze_InvalidURL(t *testing.T) {
	t.Parallel()

	a := newAnalyzer(t, analyzer.Config{})

	for _, raw := range []string{"", "not-a-url", "ftp://example.com", "://x"} {
		rep, err := a.Analyze(context.Background(), raw)
		if err == nil {
			t.Errorf("Analyze(%q): expected error", raw)
			continue
		}
		if !errors.Is(err, model.ErrInvalidURL) {
			t.Errorf("Analyze(%q): expected ErrInvalidURL, got %v", raw, err)
		}
		if rep != nil {
			t.Errorf("Analyze(%q): expected nil report", raw)
		}
	}
}

func TestAnalyze_TimeoutFailsReport(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	a := newAnalyzer(t, analyzer.Config{Timeout: 100 * time.Millisecond})
	rep, err := a.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if rep.Status != model.StatusFailed {
		t.Errorf("status = %s, want failed", rep.Status)
	}
	if rep.Score != nil {
		t.Errorf("failed report must carry nil score, got %d", *rep.Score)
	}
	if rep.Error == "" {
		t.Error("expected timeout reason on report")
	}
	if rep.Fetch == nil || rep.Fetch.Err == nil || rep.Fetch.Err.Kind != model.FetchErrTimeout {
		t.Errorf("expected timeout fetch error, got %+v", rep.Fetch)
	}
}

func TestNew_RejectsBadWeights(t *testing.T) {
	t.Parallel()

	w := aggregator.DefaultWeights()
	w[model.CategoryMeta] = 0.9

	wc := &testutil.DummyWebClient{}
	_, err := analyzer.New(analyzer.Config{Weights: w}, wc, &testutil.DummyLogger{})
	if err == nil {
		t.Fatal("expected weight validation error")
	}
	if !errors.Is(err, model.ErrInvalidWeights) {
		t.Errorf("expected ErrInvalidWeights, got %v", err)
	}
}

func TestAnalyze_ChecksSubset(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, defectivePage)
	}))
	defer srv.Close()

	a := newAnalyzer(t, analyzer.Config{})
	rep, err := a.Analyze(context.Background(), srv.URL, model.CategoryMeta)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if rep.Status != model.StatusCompleted {
		t.Errorf("status = %s, want completed", rep.Status)
	}
	if len(rep.CategoryScores) != 1 {
		t.Errorf("expected only the requested category scored, got %v", rep.CategoryScores)
	}
	if _, ok := rep.CategoryScores[model.CategoryMeta]; !ok {
		t.Error("meta sub-score missing")
	}
	for _, f := range rep.Findings {
		if f.Category != model.CategoryMeta {
			t.Errorf("unrequested category produced finding %+v", f)
		}
	}

	// The page is missing its title, so the whole score must reflect the
	// meta defects alone, not a diluted six-category average.
	if rep.Score == nil || *rep.Score >= 100 {
		t.Errorf("restricted score = %v, want < 100", rep.Score)
	}
}

func TestAnalyze_UnknownCheckRejected(t *testing.T) {
	t.Parallel()

	wc := &testutil.DummyWebClient{}
	a, err := analyzer.New(analyzer.Config{}, wc, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("analyzer.New: %v", err)
	}
	defer a.Close()

	rep, err := a.Analyze(context.Background(), "https://example.com/", model.Category("bogus"))
	if !errors.Is(err, model.ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
	if rep != nil {
		t.Errorf("expected nil report, got %+v", rep)
	}
}

func TestAnalyze_CustomUserAgent(t *testing.T) {
	t.Parallel()

	wc := &testutil.DummyWebClient{}
	a, err := analyzer.New(analyzer.Config{
		Fetcher: fetcher.Config{UserAgent: "custom-agent/2.0"},
	}, wc, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("analyzer.New: %v", err)
	}
	defer a.Close()

	if _, err := a.Analyze(context.Background(), "http://example.com/"); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(wc.Requests) == 0 {
		t.Fatal("no request recorded")
	}
	if got := wc.Requests[0].Headers.Get("User-Agent"); got != "custom-agent/2.0" {
		t.Errorf("User-Agent = %q, want the configured one", got)
	}
}
