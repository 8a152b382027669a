package checker_test

import (
	"context"
	"testing"

	"github.com/seolens/seolens/internal/checker"
	"github.com/seolens/seolens/internal/model"
)

func TestLinkChecker_ClassifiesInternalExternal(t *testing.T) {
	t.Parallel()

	in := pageInput(t, "https://example.com/page", `<html><body>
		<a href="/about">About</a>
		<a href="contact">Contact</a>
		<a href="https://example.com/deep/path">Deep</a>
		<a href="https://other.com/x">Other</a>
		<a href="#section">Jump</a>
		<a href="mailto:x@example.com">Mail</a>
	</body></html>`)

	findings := (&checker.LinkChecker{}).Check(context.Background(), in)

	f := findByMessage(findings, "internal and")
	if f == nil {
		t.Fatalf("expected summary note, got %v", findings)
	}
	counts, ok := f.Value.(map[string]int)
	if !ok {
		t.Fatalf("summary value type %T", f.Value)
	}
	if counts["internal"] != 3 {
		t.Errorf("internal = %d, want 3", counts["internal"])
	}
	if counts["external"] != 1 {
		t.Errorf("external = %d, want 1", counts["external"])
	}
}

func TestLinkChecker_NoLinks(t *testing.T) {
	t.Parallel()

	in := pageInput(t, "https://example.com", `<html><body><p>nothing here</p></body></html>`)
	findings := (&checker.LinkChecker{}).Check(context.Background(), in)

	f := findByMessage(findings, "no links found")
	if f == nil {
		t.Fatalf("expected no-links finding, got %v", findings)
	}
	if f.Severity != model.SeverityWarning {
		t.Errorf("severity = %s", f.Severity)
	}
}

func TestLinkChecker_BrokenHrefs(t *testing.T) {
	t.Parallel()

	in := pageInput(t, "https://example.com", `<html><body>
		<a href="">Empty</a>
		<a>NoHref</a>
		<a href="javascript:void(0)">JS</a>
		<a href="/real">Real</a>
	</body></html>`)

	findings := (&checker.LinkChecker{}).Check(context.Background(), in)

	empty := findByMessage(findings, "empty or unparseable href")
	if empty == nil || empty.Value != 2 {
		t.Errorf("expected 2 empty hrefs, got %v", empty)
	}
	js := findByMessage(findings, "javascript:")
	if js == nil || js.Value != 1 {
		t.Errorf("expected 1 javascript href, got %v", js)
	}
}

func TestLinkChecker_ExternalOnly(t *testing.T) {
	t.Parallel()

	in := pageInput(t, "https://example.com", `<html><body>
		<a href="https://other.com/a">A</a>
		<a href="https://elsewhere.com/b">B</a>
	</body></html>`)

	findings := (&checker.LinkChecker{}).Check(context.Background(), in)
	if findByMessage(findings, "external links only") == nil {
		t.Errorf("expected external-only finding, got %v", findings)
	}
}
