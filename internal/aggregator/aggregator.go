// Package aggregator folds per-category findings into one weighted overall
// score and a deterministic priority ordering.
package aggregator

import (
	"math"
	"sort"

	"github.com/seolens/seolens/internal/model"
)

// Result is what aggregation produces for one analysis.
type Result struct {
	// Score is the weighted overall score, an integer in [0,100].
	Score int

	// CategoryScores holds each category's sub-score in [0,100].
	CategoryScores map[model.Category]int

	// Prioritized is the findings re-ordered by severity desc, category
	// weight desc, then original detection order.
	Prioritized []model.Finding
}

// Aggregate combines findings into a Result. The input slice must be in
// detection order (the fixed declared checker order, not completion order);
// the aggregator itself never depends on wall-clock scheduling, so identical
// finding sets always produce identical output.
//
// A category's sub-score is the mean of its findings' scores; a category with
// no findings contributes 100, meaning no issues detected. Only categories
// present in the weight table are scored, so a restricted run (see
// Weights.Restrict) never reports categories it did not check.
func Aggregate(findings []model.Finding, weights Weights) Result {
	sums := make(map[model.Category]int)
	counts := make(map[model.Category]int)
	for _, f := range findings {
		sums[f.Category] += clamp(f.Score)
		counts[f.Category]++
	}

	categoryScores := make(map[model.Category]int, len(weights))
	overall := 0.0
	for _, cat := range model.Categories {
		w, ok := weights[cat]
		if !ok {
			continue
		}
		sub := 100
		if n := counts[cat]; n > 0 {
			sub = sums[cat] / n
		}
		categoryScores[cat] = sub
		overall += w * float64(sub)
	}

	return Result{
		Score:          clamp(int(math.Round(overall))),
		CategoryScores: categoryScores,
		Prioritized:    Prioritize(findings, weights),
	}
}

// Prioritize orders findings for display: critical before warning before
// info, ties broken by category weight descending, then by detection order.
// The sort is stable so identical inputs always yield identical output.
func Prioritize(findings []model.Finding, weights Weights) []model.Finding {
	out := make([]model.Finding, len(findings))
	copy(out, findings)

	sort.SliceStable(out, func(i, j int) bool {
		if ri, rj := out[i].Severity.Rank(), out[j].Severity.Rank(); ri != rj {
			return ri > rj
		}
		return weights[out[i].Category] > weights[out[j].Category]
	})

	return out
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
