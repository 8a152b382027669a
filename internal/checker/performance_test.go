package checker_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/seolens/seolens/internal/checker"
	"github.com/seolens/seolens/internal/model"
)

func TestPerformanceChecker_LoadTimeBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		elapsed  time.Duration
		severity model.Severity
		message  string
	}{
		{"fast", 400 * time.Millisecond, model.SeverityInfo, "page loaded in"},
		{"moderate", 1500 * time.Millisecond, model.SeverityWarning, "under 1s is ideal"},
		{"slow", 4 * time.Second, model.SeverityCritical, "over 3s"},
		{"very slow", 12 * time.Second, model.SeverityCritical, "over 10s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := pageInput(t, "https://example.com", "<html><body>ok</body></html>")
			in.Fetch.Elapsed = tc.elapsed

			findings := (&checker.PerformanceChecker{}).Check(context.Background(), in)
			f := findByMessage(findings, tc.message)
			if f == nil {
				t.Fatalf("expected finding containing %q, got %v", tc.message, findings)
			}
			if f.Severity != tc.severity {
				t.Errorf("severity = %s, want %s", f.Severity, tc.severity)
			}
		})
	}
}

func TestPerformanceChecker_PayloadSize(t *testing.T) {
	t.Parallel()

	in := pageInput(t, "https://example.com", "<html><body>"+strings.Repeat("x", 3<<20)+"</body></html>")
	findings := (&checker.PerformanceChecker{}).Check(context.Background(), in)

	f := findByMessage(findings, "over 2 MiB")
	if f == nil {
		t.Fatalf("expected payload warning, got %v", findings)
	}
	if f.Severity != model.SeverityWarning {
		t.Errorf("severity = %s", f.Severity)
	}
}

func TestPerformanceChecker_NonOKStatus(t *testing.T) {
	t.Parallel()

	in := pageInput(t, "https://example.com", "<html><body>gone</body></html>")
	in.Fetch.StatusCode = 404

	findings := (&checker.PerformanceChecker{}).Check(context.Background(), in)
	if findByMessage(findings, "status 404") == nil {
		t.Errorf("expected status finding, got %v", findings)
	}
}

func TestPerformanceChecker_FetchFailed(t *testing.T) {
	t.Parallel()

	in := checker.Input{
		TargetURL: "https://example.com",
		Fetch: &model.FetchResult{
			RequestedURL: "https://example.com",
			Err:          &model.FetchError{Kind: model.FetchErrTimeout},
		},
	}

	findings := (&checker.PerformanceChecker{}).Check(context.Background(), in)
	if len(findings) != 1 || findings[0].Severity != model.SeverityInfo {
		t.Errorf("failed fetch must degrade to one neutral note, got %v", findings)
	}
}
