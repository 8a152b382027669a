// Package checker holds the per-category SEO checks. Every checker is a pure
// function over the fetched page: no I/O, no mutation of its input, safe to
// run concurrently with the others. A checker that hits malformed data
// degrades to an info finding instead of failing the analysis.
package checker

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/seolens/seolens/internal/model"
)

// Input is the request-scoped, read-only view of the fetched page shared by
// all checkers of one analysis. Doc is parsed once from Fetch.Body; it is nil
// when the body was empty or unparseable.
type Input struct {
	TargetURL  string
	TargetHost string
	Fetch      *model.FetchResult
	Cert       *model.CertificateInfo
	Doc        *goquery.Document
}

// Checker is one SEO check category.
type Checker interface {
	// Category names the fixed category this checker reports under.
	Category() model.Category

	// Check inspects the input and returns zero or more findings. No
	// findings means no issues detected in this category.
	Check(ctx context.Context, in Input) []model.Finding
}

// Defaults returns all checkers in detection order. The order is part of the
// scoring contract: prioritized report output breaks ties by it.
func Defaults() []Checker {
	return []Checker{
		&MetaChecker{},
		&PerformanceChecker{},
		&LinkChecker{},
		&MobileChecker{},
		&SSLChecker{},
		&ContentChecker{},
	}
}

// PenaltyScore is the sub-score a category receives when its check could not
// complete. It keeps "never ran" distinguishable from "ran clean": a category
// with no findings scores 100, an incomplete one must not.
const PenaltyScore = 50

// Penalty builds the finding an incomplete check contributes to its category.
func Penalty(cat model.Category, msg string) model.Finding {
	return model.Finding{
		Category: cat,
		Severity: model.SeverityWarning,
		Message:  msg,
		Score:    PenaltyScore,
	}
}

// Run executes a single checker, converting an internal panic into a penalty
// finding so a broken check can never take the whole analysis down nor pass
// its category as clean. The bool reports whether the checker completed
// normally.
func Run(ctx context.Context, c Checker, in Input) (findings []model.Finding, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			findings = []model.Finding{Penalty(c.Category(),
				fmt.Sprintf("%s check aborted on an internal error: %v", c.Category(), r))}
			ok = false
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, false
	}

	return c.Check(ctx, in), true
}

// note builds an informational finding that does not pull the category down.
func note(cat model.Category, msg string, value any) model.Finding {
	return model.Finding{
		Category: cat,
		Severity: model.SeverityInfo,
		Message:  msg,
		Score:    100,
		Value:    value,
	}
}
