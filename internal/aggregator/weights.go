package aggregator

import (
	"fmt"
	"math"

	"github.com/seolens/seolens/internal/model"
)

// Weights maps each check category to its share of the overall score.
// Loaded once at startup into an immutable value and passed explicitly; the
// aggregator never reads ambient state.
type Weights map[model.Category]float64

// weightEpsilon is the tolerance when validating that weights sum to 1.0.
const weightEpsilon = 1e-9

// DefaultWeights is the shipped weight table.
func DefaultWeights() Weights {
	return Weights{
		model.CategoryMeta:        0.20,
		model.CategoryPerformance: 0.25,
		model.CategoryLinks:       0.15,
		model.CategoryMobile:      0.15,
		model.CategorySSL:         0.15,
		model.CategoryContent:     0.10,
	}
}

// Restrict returns a new table holding only cats, renormalized so the kept
// weights sum to 1.0 again. Used when a request limits which checks run: the
// unrequested categories must not count as perfect, they must not count at
// all. Unknown or duplicate entries in cats are ignored; an empty selection
// returns the table unchanged.
func (w Weights) Restrict(cats []model.Category) Weights {
	total := 0.0
	seen := make(map[model.Category]bool, len(cats))
	for _, cat := range cats {
		weight, ok := w[cat]
		if !ok || seen[cat] {
			continue
		}
		seen[cat] = true
		total += weight
	}
	if len(seen) == 0 || total <= 0 {
		return w
	}

	out := make(Weights, len(seen))
	for cat := range seen {
		out[cat] = w[cat] / total
	}
	return out
}

// Validate fails fast on a weight table that does not cover every category
// exactly once or does not sum to 1.0. Called at startup, never per request.
func (w Weights) Validate() error {
	sum := 0.0
	for cat, weight := range w {
		if !cat.Valid() {
			return fmt.Errorf("%w: unknown category %q", model.ErrInvalidWeights, cat)
		}
		if weight < 0 {
			return fmt.Errorf("%w: negative weight %f for %q", model.ErrInvalidWeights, weight, cat)
		}
		sum += weight
	}
	for _, cat := range model.Categories {
		if _, ok := w[cat]; !ok {
			return fmt.Errorf("%w: missing weight for %q", model.ErrInvalidWeights, cat)
		}
	}
	if math.Abs(sum-1.0) > weightEpsilon {
		return fmt.Errorf("%w: got %f", model.ErrInvalidWeights, sum)
	}
	return nil
}
