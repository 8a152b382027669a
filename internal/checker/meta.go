package checker

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/seolens/seolens/internal/model"
)

// Title and description length bands. Titles over 60 characters get cut off
// in search results; descriptions under 50 are too thin to earn a click and
// over 160 get truncated.
const (
	titleMinLen = 30
	titleMaxLen = 60
	descMinLen  = 50
	descMaxLen  = 160

	maxKeywords = 10
)

// MetaChecker validates presence, length and uniqueness of the title and
// description tags, plus the keywords and robots meta observations.
type MetaChecker struct{}

func (m *MetaChecker) Category() model.Category { return model.CategoryMeta }

func (m *MetaChecker) Check(ctx context.Context, in Input) []model.Finding {
	cat := m.Category()

	if in.Doc == nil {
		return []model.Finding{note(cat, "page body was empty or not parseable; meta tags not evaluated", nil)}
	}

	var findings []model.Finding

	titles := in.Doc.Find("title")
	switch {
	case titles.Length() == 0:
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityCritical,
			Message:  "missing <title> tag",
			Score:    0,
		})
	default:
		if titles.Length() > 1 {
			findings = append(findings, model.Finding{
				Category: cat,
				Severity: model.SeverityWarning,
				Message:  fmt.Sprintf("%d <title> tags found; search engines use only one", titles.Length()),
				Score:    70,
				Value:    titles.Length(),
			})
		}
		title := strings.TrimSpace(titles.First().Text())
		// Length bands count characters, not bytes, so non-ASCII titles
		// are not misjudged.
		titleLen := utf8.RuneCountInString(title)
		switch {
		case titleLen == 0:
			findings = append(findings, model.Finding{
				Category: cat,
				Severity: model.SeverityCritical,
				Message:  "<title> tag is empty",
				Score:    0,
			})
		case titleLen < titleMinLen:
			findings = append(findings, model.Finding{
				Category: cat,
				Severity: model.SeverityWarning,
				Message:  fmt.Sprintf("title is too short (%d chars, recommended %d-%d)", titleLen, titleMinLen, titleMaxLen),
				Score:    50,
				Value:    titleLen,
			})
		case titleLen > titleMaxLen:
			findings = append(findings, model.Finding{
				Category: cat,
				Severity: model.SeverityWarning,
				Message:  fmt.Sprintf("title is too long (%d chars, recommended at most %d)", titleLen, titleMaxLen),
				Score:    60,
				Value:    titleLen,
			})
		}
	}

	descs := in.Doc.Find(`meta[name="description"]`)
	switch {
	case descs.Length() == 0:
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityWarning,
			Message:  "missing meta description",
			Score:    30,
		})
	default:
		if descs.Length() > 1 {
			findings = append(findings, model.Finding{
				Category: cat,
				Severity: model.SeverityWarning,
				Message:  fmt.Sprintf("%d meta description tags found", descs.Length()),
				Score:    70,
				Value:    descs.Length(),
			})
		}
		desc := strings.TrimSpace(descs.First().AttrOr("content", ""))
		descLen := utf8.RuneCountInString(desc)
		switch {
		case descLen == 0:
			findings = append(findings, model.Finding{
				Category: cat,
				Severity: model.SeverityWarning,
				Message:  "meta description is empty",
				Score:    30,
			})
		case descLen < descMinLen:
			findings = append(findings, model.Finding{
				Category: cat,
				Severity: model.SeverityWarning,
				Message:  fmt.Sprintf("meta description is too short (%d chars, recommended %d-%d)", descLen, descMinLen, descMaxLen),
				Score:    50,
				Value:    descLen,
			})
		case descLen > descMaxLen:
			findings = append(findings, model.Finding{
				Category: cat,
				Severity: model.SeverityWarning,
				Message:  fmt.Sprintf("meta description is too long (%d chars, recommended at most %d)", descLen, descMaxLen),
				Score:    60,
				Value:    descLen,
			})
		}
	}

	if kw := strings.TrimSpace(in.Doc.Find(`meta[name="keywords"]`).First().AttrOr("content", "")); kw != "" {
		count := 0
		for _, k := range strings.Split(kw, ",") {
			if strings.TrimSpace(k) != "" {
				count++
			}
		}
		if count > maxKeywords {
			findings = append(findings, model.Finding{
				Category: cat,
				Severity: model.SeverityInfo,
				Message:  fmt.Sprintf("meta keywords lists %d terms; most engines ignore the tag entirely", count),
				Score:    80,
				Value:    count,
			})
		}
	}

	if robots := in.Doc.Find(`meta[name="robots"]`); robots.Length() > 0 {
		content := strings.ToLower(robots.First().AttrOr("content", ""))
		if strings.Contains(content, "noindex") {
			findings = append(findings, model.Finding{
				Category: cat,
				Severity: model.SeverityCritical,
				Message:  "robots meta tag contains noindex; the page is excluded from search results",
				Score:    0,
				Value:    content,
			})
		}
	}

	return findings
}
