package checker

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seolens/seolens/internal/model"
)

// minWordCount is the floor below which a page counts as thin content.
const minWordCount = 300

// ContentChecker looks at heading structure, text volume and image alt
// coverage.
type ContentChecker struct{}

func (c *ContentChecker) Category() model.Category { return model.CategoryContent }

func (c *ContentChecker) Check(ctx context.Context, in Input) []model.Finding {
	cat := c.Category()

	if in.Doc == nil {
		return []model.Finding{note(cat, "page body was empty or not parseable; content not evaluated", nil)}
	}

	var findings []model.Finding

	h1s := in.Doc.Find("h1").Length()
	switch {
	case h1s == 0:
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityWarning,
			Message:  "no <h1> heading on the page",
			Score:    40,
		})
	case h1s > 1:
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("%d <h1> headings found; a page should have exactly one", h1s),
			Score:    60,
			Value:    h1s,
		})
	}

	words := countWords(in.Doc)
	if words < minWordCount {
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("thin content: %d words, recommended at least %d", words, minWordCount),
			Score:    50,
			Value:    words,
		})
	}

	imgs := in.Doc.Find("img")
	missingAlt := 0
	imgs.Each(func(_ int, s *goquery.Selection) {
		if strings.TrimSpace(s.AttrOr("alt", "")) == "" {
			missingAlt++
		}
	})
	if missingAlt > 0 {
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("%d of %d image(s) missing alt text", missingAlt, imgs.Length()),
			Score:    70,
			Value:    missingAlt,
		})
	}

	return findings
}

// countWords approximates the visible word count by stripping script and
// style subtrees before splitting the remaining text.
func countWords(doc *goquery.Document) int {
	clone := doc.Selection.Clone()
	clone.Find("script, style, noscript").Remove()
	return len(strings.Fields(clone.Text()))
}
