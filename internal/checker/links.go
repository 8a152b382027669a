package checker

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/utils"
)

// LinkChecker classifies anchors as internal or external against the target
// host and flags broken-looking hrefs. It never follows a link.
type LinkChecker struct{}

func (l *LinkChecker) Category() model.Category { return model.CategoryLinks }

func (l *LinkChecker) Check(ctx context.Context, in Input) []model.Finding {
	cat := l.Category()

	if in.Doc == nil {
		return []model.Finding{note(cat, "page body was empty or not parseable; links not evaluated", nil)}
	}

	base, err := utils.NewURLTools(in.TargetURL)
	if err != nil {
		return []model.Finding{note(cat, "target URL could not be parsed; links not classified", nil)}
	}

	var (
		internal, external int
		emptyHref          int
		scriptHref         int
		anchorOnly         int
	)

	in.Doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		href = strings.TrimSpace(href)

		switch {
		case !exists || href == "":
			emptyHref++
			return
		case strings.HasPrefix(strings.ToLower(href), "javascript:"):
			scriptHref++
			return
		case strings.HasPrefix(href, "#"):
			anchorOnly++
			return
		case strings.HasPrefix(strings.ToLower(href), "mailto:") || strings.HasPrefix(strings.ToLower(href), "tel:"):
			return
		}

		resolved, err := base.ResolveFullUrlString(href)
		if err != nil {
			emptyHref++
			return
		}
		same, err := base.DomainIsSameString(resolved)
		if err != nil {
			return
		}
		if same {
			internal++
		} else {
			external++
		}
	})

	total := internal + external + emptyHref + scriptHref + anchorOnly

	var findings []model.Finding

	if total == 0 {
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityWarning,
			Message:  "no links found on the page; crawlers have nothing to follow",
			Score:    50,
		})
		return findings
	}

	if emptyHref > 0 {
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("%d link(s) with an empty or unparseable href", emptyHref),
			Score:    60,
			Value:    emptyHref,
		})
	}
	if scriptHref > 0 {
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("%d link(s) using a javascript: href; invisible to crawlers", scriptHref),
			Score:    70,
			Value:    scriptHref,
		})
	}
	if internal == 0 && external > 0 {
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityWarning,
			Message:  "page has external links only; no internal links to crawl",
			Score:    60,
		})
	}

	findings = append(findings, note(cat,
		fmt.Sprintf("%d internal and %d external link(s) found", internal, external),
		map[string]int{"internal": internal, "external": external, "total": total}))

	return findings
}
