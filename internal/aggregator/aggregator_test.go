package aggregator_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/seolens/seolens/internal/aggregator"
	"github.com/seolens/seolens/internal/model"
)

func TestDefaultWeights_Valid(t *testing.T) {
	t.Parallel()

	if err := aggregator.DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights invalid: %v", err)
	}
}

func TestWeights_ValidateFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		muta func(aggregator.Weights)
	}{
		{"missing category", func(w aggregator.Weights) { delete(w, model.CategorySSL) }},
		{"bad sum", func(w aggregator.Weights) { w[model.CategoryMeta] = 0.5 }},
		{"negative", func(w aggregator.Weights) {
			w[model.CategoryMeta] = -0.2
			w[model.CategoryContent] = 0.5
		}},
		{"unknown category", func(w aggregator.Weights) { w["astrology"] = 0.0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := aggregator.DefaultWeights()
			tc.muta(w)
			err := w.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, model.ErrInvalidWeights) {
				t.Errorf("expected ErrInvalidWeights, got %v", err)
			}
		})
	}
}

func TestAggregate_NoFindingsIsPerfect(t *testing.T) {
	t.Parallel()

	res := aggregator.Aggregate(nil, aggregator.DefaultWeights())

	if res.Score != 100 {
		t.Errorf("score = %d, want 100", res.Score)
	}
	for cat, sub := range res.CategoryScores {
		if sub != 100 {
			t.Errorf("category %s sub-score = %d, want 100", cat, sub)
		}
	}
}

func TestAggregate_CategoryMean(t *testing.T) {
	t.Parallel()

	findings := []model.Finding{
		{Category: model.CategoryMeta, Severity: model.SeverityCritical, Message: "a", Score: 0},
		{Category: model.CategoryMeta, Severity: model.SeverityWarning, Message: "b", Score: 50},
	}

	res := aggregator.Aggregate(findings, aggregator.DefaultWeights())

	if res.CategoryScores[model.CategoryMeta] != 25 {
		t.Errorf("meta sub-score = %d, want 25", res.CategoryScores[model.CategoryMeta])
	}
	// Every other category stays at 100.
	if res.CategoryScores[model.CategoryContent] != 100 {
		t.Errorf("content sub-score = %d, want 100", res.CategoryScores[model.CategoryContent])
	}

	// overall = 0.20*25 + 0.80*100 = 85
	if res.Score != 85 {
		t.Errorf("overall = %d, want 85", res.Score)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	t.Parallel()

	findings := []model.Finding{
		{Category: model.CategoryMeta, Severity: model.SeverityWarning, Message: "m1", Score: 50},
		{Category: model.CategoryPerformance, Severity: model.SeverityCritical, Message: "p1", Score: 40},
		{Category: model.CategorySSL, Severity: model.SeverityWarning, Message: "s1", Score: 50},
		{Category: model.CategoryContent, Severity: model.SeverityInfo, Message: "c1", Score: 100},
	}

	first := aggregator.Aggregate(findings, aggregator.DefaultWeights())
	for i := 0; i < 10; i++ {
		again := aggregator.Aggregate(findings, aggregator.DefaultWeights())
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("aggregation not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestPrioritize_Ordering(t *testing.T) {
	t.Parallel()

	findings := []model.Finding{
		{Category: model.CategoryContent, Severity: model.SeverityInfo, Message: "info-content"},
		{Category: model.CategoryLinks, Severity: model.SeverityWarning, Message: "warn-links"},
		{Category: model.CategoryMeta, Severity: model.SeverityWarning, Message: "warn-meta"},
		{Category: model.CategoryMobile, Severity: model.SeverityCritical, Message: "crit-mobile"},
	}

	out := aggregator.Prioritize(findings, aggregator.DefaultWeights())

	want := []string{"crit-mobile", "warn-meta", "warn-links", "info-content"}
	for i, msg := range want {
		if out[i].Message != msg {
			t.Errorf("position %d = %q, want %q", i, out[i].Message, msg)
		}
	}
}

func TestPrioritize_StableTies(t *testing.T) {
	t.Parallel()

	// Same severity, same category: detection order must survive.
	findings := []model.Finding{
		{Category: model.CategoryMeta, Severity: model.SeverityWarning, Message: "first"},
		{Category: model.CategoryMeta, Severity: model.SeverityWarning, Message: "second"},
		{Category: model.CategoryMeta, Severity: model.SeverityWarning, Message: "third"},
	}

	out := aggregator.Prioritize(findings, aggregator.DefaultWeights())
	for i, msg := range []string{"first", "second", "third"} {
		if out[i].Message != msg {
			t.Errorf("position %d = %q, want %q", i, out[i].Message, msg)
		}
	}
}

func TestPrioritize_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	findings := []model.Finding{
		{Category: model.CategoryContent, Severity: model.SeverityInfo, Message: "a"},
		{Category: model.CategoryMeta, Severity: model.SeverityCritical, Message: "b"},
	}

	aggregator.Prioritize(findings, aggregator.DefaultWeights())
	if findings[0].Message != "a" || findings[1].Message != "b" {
		t.Error("input slice was reordered")
	}
}

func TestAggregate_ClampsScores(t *testing.T) {
	t.Parallel()

	findings := []model.Finding{
		{Category: model.CategoryMeta, Severity: model.SeverityInfo, Score: 250},
		{Category: model.CategoryLinks, Severity: model.SeverityInfo, Score: -50},
	}

	res := aggregator.Aggregate(findings, aggregator.DefaultWeights())
	if res.CategoryScores[model.CategoryMeta] != 100 {
		t.Errorf("meta sub-score = %d, want clamped 100", res.CategoryScores[model.CategoryMeta])
	}
	if res.CategoryScores[model.CategoryLinks] != 0 {
		t.Errorf("links sub-score = %d, want clamped 0", res.CategoryScores[model.CategoryLinks])
	}
}

// ─── Restricted weights ───

func TestWeights_Restrict(t *testing.T) {
	t.Parallel()

	w := aggregator.DefaultWeights().Restrict([]model.Category{
		model.CategoryMeta, model.CategoryLinks, model.CategoryMeta,
	})

	if len(w) != 2 {
		t.Fatalf("restricted weight count = %d, want 2", len(w))
	}
	if _, ok := w[model.CategorySSL]; ok {
		t.Error("unselected category kept its weight")
	}

	var total float64
	for _, v := range w {
		total += v
	}
	if total < 0.999 || total > 1.001 {
		t.Errorf("restricted weights sum to %v, want 1.0", total)
	}
}

func TestWeights_RestrictEmptyKeepsAll(t *testing.T) {
	t.Parallel()

	w := aggregator.DefaultWeights().Restrict(nil)
	if !reflect.DeepEqual(w, aggregator.DefaultWeights()) {
		t.Error("empty selection should leave the weights untouched")
	}
}

func TestAggregate_SkipsUnweightedCategories(t *testing.T) {
	t.Parallel()

	weights := aggregator.DefaultWeights().Restrict([]model.Category{model.CategoryMeta})
	findings := []model.Finding{
		{Category: model.CategoryMeta, Severity: model.SeverityWarning, Score: 40},
	}

	res := aggregator.Aggregate(findings, weights)
	if len(res.CategoryScores) != 1 {
		t.Fatalf("scored %d categories, want only the weighted one", len(res.CategoryScores))
	}
	if res.Score != 40 {
		t.Errorf("overall = %d, want 40 under a single full-weight category", res.Score)
	}
}
