package checker

import (
	"context"
	"strings"

	"github.com/seolens/seolens/internal/model"
)

// MobileChecker verifies the viewport meta tag and looks for responsive
// styling hints.
type MobileChecker struct{}

func (m *MobileChecker) Category() model.Category { return model.CategoryMobile }

func (m *MobileChecker) Check(ctx context.Context, in Input) []model.Finding {
	cat := m.Category()

	if in.Doc == nil {
		return []model.Finding{note(cat, "page body was empty or not parseable; mobile readiness not evaluated", nil)}
	}

	var findings []model.Finding

	viewport := in.Doc.Find(`meta[name="viewport"]`)
	if viewport.Length() == 0 {
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityCritical,
			Message:  "missing viewport meta tag; the page will not scale on mobile devices",
			Score:    0,
		})
	} else {
		content := strings.ToLower(viewport.First().AttrOr("content", ""))
		if !strings.Contains(content, "width=device-width") {
			findings = append(findings, model.Finding{
				Category: cat,
				Severity: model.SeverityWarning,
				Message:  "viewport meta tag does not set width=device-width",
				Score:    60,
				Value:    content,
			})
		}
	}

	// Crude responsiveness hint, same heuristic the original audit used:
	// any media query in inline styles or media attributes.
	body := ""
	if in.Fetch != nil {
		body = in.Fetch.Body
	}
	if !strings.Contains(body, "@media") && !strings.Contains(body, "media=") {
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityWarning,
			Message:  "no media queries detected; layout may not adapt to small screens",
			Score:    70,
		})
	}

	return findings
}
