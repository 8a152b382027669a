package checker_test

import (
	"context"
	"strings"
	"testing"

	"github.com/seolens/seolens/internal/checker"
	"github.com/seolens/seolens/internal/model"
)

func TestMetaChecker_CleanPage(t *testing.T) {
	t.Parallel()

	in := pageInput(t, "https://example.com", `<html><head>
		<title>A Perfectly Reasonable Title For This Example Page</title>
		<meta name="description" content="A description that is comfortably inside the recommended length band for search snippets everywhere.">
	</head><body></body></html>`)

	findings := (&checker.MetaChecker{}).Check(context.Background(), in)
	if len(findings) != 0 {
		t.Errorf("expected no findings for clean page, got %v", findings)
	}
}

func TestMetaChecker_MissingTitleAndLongDescription(t *testing.T) {
	t.Parallel()

	longDesc := strings.Repeat("padding words here ", 10) // > 160 chars
	in := pageInput(t, "https://example.com", `<html><head>
		<meta name="description" content="`+longDesc+`">
	</head><body></body></html>`)

	findings := (&checker.MetaChecker{}).Check(context.Background(), in)

	// Both defects must be reported independently.
	if len(findings) < 2 {
		t.Fatalf("expected at least 2 findings, got %d: %v", len(findings), findings)
	}

	missing := findByMessage(findings, "missing <title>")
	if missing == nil {
		t.Fatal("expected missing title finding")
	}
	if missing.Severity != model.SeverityCritical || missing.Score != 0 {
		t.Errorf("missing title must be critical score 0, got %+v", missing)
	}

	long := findByMessage(findings, "description is too long")
	if long == nil {
		t.Fatal("expected overlong description finding")
	}
	if long.Severity != model.SeverityWarning {
		t.Errorf("overlong description severity = %s", long.Severity)
	}
}

func TestMetaChecker_TitleLengthBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		title   string
		message string
	}{
		{"empty", "", "<title> tag is empty"},
		{"short", "Tiny", "title is too short"},
		{"long", strings.Repeat("x", 61), "title is too long"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := pageInput(t, "https://example.com",
				"<html><head><title>"+tc.title+"</title></head><body></body></html>")
			findings := (&checker.MetaChecker{}).Check(context.Background(), in)
			if findByMessage(findings, tc.message) == nil {
				t.Errorf("expected finding containing %q, got %v", tc.message, findings)
			}
		})
	}
}

func TestMetaChecker_MultipleTitles(t *testing.T) {
	t.Parallel()

	in := pageInput(t, "https://example.com", `<html><head>
		<title>First Title Long Enough To Pass The Length Check</title>
		<title>Second</title>
	</head><body></body></html>`)

	findings := (&checker.MetaChecker{}).Check(context.Background(), in)
	if findByMessage(findings, "2 <title> tags") == nil {
		t.Errorf("expected multiple-title finding, got %v", findings)
	}
}

func TestMetaChecker_RobotsNoindex(t *testing.T) {
	t.Parallel()

	in := pageInput(t, "https://example.com", `<html><head>
		<title>A Perfectly Reasonable Title For This Example Page</title>
		<meta name="description" content="A description that is comfortably inside the recommended length band for search snippets everywhere.">
		<meta name="robots" content="NOINDEX, nofollow">
	</head><body></body></html>`)

	findings := (&checker.MetaChecker{}).Check(context.Background(), in)
	f := findByMessage(findings, "noindex")
	if f == nil {
		t.Fatal("expected noindex finding")
	}
	if f.Severity != model.SeverityCritical || f.Score != 0 {
		t.Errorf("noindex must be critical score 0, got %+v", f)
	}
}

func TestMetaChecker_TooManyKeywords(t *testing.T) {
	t.Parallel()

	in := pageInput(t, "https://example.com", `<html><head>
		<title>A Perfectly Reasonable Title For This Example Page</title>
		<meta name="description" content="A description that is comfortably inside the recommended length band for search snippets everywhere.">
		<meta name="keywords" content="a,b,c,d,e,f,g,h,i,j,k,l">
	</head><body></body></html>`)

	findings := (&checker.MetaChecker{}).Check(context.Background(), in)
	f := findByMessage(findings, "keywords")
	if f == nil {
		t.Fatal("expected keywords finding")
	}
	if f.Severity != model.SeverityInfo {
		t.Errorf("keyword stuffing is informational, got %s", f.Severity)
	}
}

func TestMetaChecker_NilDoc(t *testing.T) {
	t.Parallel()

	in := pageInput(t, "https://example.com", "")
	findings := (&checker.MetaChecker{}).Check(context.Background(), in)

	if len(findings) != 1 || findings[0].Severity != model.SeverityInfo || findings[0].Score != 100 {
		t.Errorf("nil doc must degrade to one neutral note, got %v", findings)
	}
}

func TestMetaChecker_LengthsCountRunesNotBytes(t *testing.T) {
	t.Parallel()

	// 55 runes but 110 bytes; inside the recommended band only when
	// lengths are measured in characters.
	title := strings.Repeat("ü", 55)
	desc := strings.Repeat("ö", 120) // 120 runes, 240 bytes

	in := pageInput(t, "https://example.com", `<html><head>
		<title>`+title+`</title>
		<meta name="description" content="`+desc+`">
	</head><body></body></html>`)

	findings := (&checker.MetaChecker{}).Check(context.Background(), in)
	if f := findByMessage(findings, "title is too long"); f != nil {
		t.Errorf("multibyte title misjudged as too long: %+v", f)
	}
	if f := findByMessage(findings, "description is too long"); f != nil {
		t.Errorf("multibyte description misjudged as too long: %+v", f)
	}
}
