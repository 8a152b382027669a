package checker

import (
	"context"
	"fmt"
	"time"

	"github.com/seolens/seolens/internal/model"
)

// Load time severity bands and payload limits.
const (
	loadFast     = 1 * time.Second
	loadSlow     = 3 * time.Second
	loadVerySlow = 10 * time.Second

	payloadWarn     = 2 << 20 // 2 MiB
	payloadCritical = 5 << 20 // 5 MiB
)

// PerformanceChecker thresholds the measured fetch time and payload size.
type PerformanceChecker struct{}

func (p *PerformanceChecker) Category() model.Category { return model.CategoryPerformance }

func (p *PerformanceChecker) Check(ctx context.Context, in Input) []model.Finding {
	cat := p.Category()

	if in.Fetch == nil || !in.Fetch.OK() {
		return []model.Finding{note(cat, "page fetch did not complete; performance not measured", nil)}
	}

	var findings []model.Finding

	elapsed := in.Fetch.Elapsed
	switch {
	case elapsed > loadVerySlow:
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityCritical,
			Message:  fmt.Sprintf("page took %.1fs to load (over %ds)", elapsed.Seconds(), int(loadVerySlow.Seconds())),
			Score:    25,
			Value:    elapsed.Seconds(),
		})
	case elapsed > loadSlow:
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityCritical,
			Message:  fmt.Sprintf("page took %.1fs to load (over %ds)", elapsed.Seconds(), int(loadSlow.Seconds())),
			Score:    40,
			Value:    elapsed.Seconds(),
		})
	case elapsed > loadFast:
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("page took %.1fs to load; under 1s is ideal", elapsed.Seconds()),
			Score:    75,
			Value:    elapsed.Seconds(),
		})
	default:
		findings = append(findings, note(cat, fmt.Sprintf("page loaded in %dms", elapsed.Milliseconds()), elapsed.Seconds()))
	}

	size := len(in.Fetch.Body)
	switch {
	case size > payloadCritical:
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityCritical,
			Message:  fmt.Sprintf("page payload is %.1f MiB; over 5 MiB", float64(size)/(1<<20)),
			Score:    30,
			Value:    size,
		})
	case size > payloadWarn:
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("page payload is %.1f MiB; over 2 MiB", float64(size)/(1<<20)),
			Score:    60,
			Value:    size,
		})
	}

	if code := in.Fetch.StatusCode; code < 200 || code >= 300 {
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("page answered with status %d instead of 200", code),
			Score:    40,
			Value:    code,
		})
	}

	return findings
}
