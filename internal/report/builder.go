// Package report shapes aggregated findings into the externally visible
// AnalysisReport and its JSON envelope. Building a report is a pure
// transformation: no I/O, no clock reads beyond the timestamps handed in.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/seolens/seolens/internal/aggregator"
	"github.com/seolens/seolens/internal/model"
)

// Build finalizes a successful or partial analysis into a report. Status is
// partial when any category could not complete; the score is computed either
// way from the findings that did arrive.
func Build(req *model.AnalysisRequest, agg aggregator.Result, partial []model.PartialFailure,
	fetch *model.FetchResult, cert *model.CertificateInfo, elapsed time.Duration) *model.AnalysisReport {

	status := model.StatusCompleted
	if len(partial) > 0 {
		status = model.StatusPartial
	}

	score := agg.Score

	return &model.AnalysisReport{
		ID:              uuid.New().String(),
		URL:             req.URL,
		Status:          status,
		Score:           &score,
		CategoryScores:  agg.CategoryScores,
		Findings:        agg.Prioritized,
		Recommendations: Recommendations(agg.Prioritized),
		PartialFailures: partial,
		Fetch:           fetch,
		Certificate:     cert,
		Elapsed:         elapsed,
		CreatedAt:       time.Now().UTC(),
	}
}

// BuildFailed produces the report for an analysis whose fetch never
// completed: status failed, no score.
func BuildFailed(req *model.AnalysisRequest, fetch *model.FetchResult, cert *model.CertificateInfo,
	reason string, elapsed time.Duration) *model.AnalysisReport {

	return &model.AnalysisReport{
		ID:          uuid.New().String(),
		URL:         req.URL,
		Status:      model.StatusFailed,
		Score:       nil,
		Error:       reason,
		Fetch:       fetch,
		Certificate: cert,
		Elapsed:     elapsed,
		CreatedAt:   time.Now().UTC(),
	}
}

// Recommendations derives the prioritized improvement list from findings.
// Info-level observations do not become recommendations.
func Recommendations(prioritized []model.Finding) []model.Recommendation {
	var recs []model.Recommendation
	for _, f := range prioritized {
		if f.Severity == model.SeverityInfo {
			continue
		}
		recs = append(recs, model.Recommendation{
			Category:    f.Category,
			Priority:    f.Severity,
			Title:       titleFor(f.Category),
			Description: f.Message,
			Solution:    solutionFor(f.Category),
		})
	}
	return recs
}

func titleFor(cat model.Category) string {
	switch cat {
	case model.CategoryMeta:
		return "Fix page meta tags"
	case model.CategoryPerformance:
		return "Improve page load speed"
	case model.CategoryLinks:
		return "Clean up link structure"
	case model.CategoryMobile:
		return "Make the page mobile friendly"
	case model.CategorySSL:
		return "Fix the TLS certificate"
	case model.CategoryContent:
		return "Improve page content"
	default:
		return "Review finding"
	}
}

func solutionFor(cat model.Category) string {
	switch cat {
	case model.CategoryMeta:
		return "Title should be 30-60 characters, the meta description 50-160, each present exactly once."
	case model.CategoryPerformance:
		return "Optimize images, enable caching and compression, minimize CSS and JS."
	case model.CategoryLinks:
		return "Give every anchor a crawlable href; replace javascript: handlers with real URLs."
	case model.CategoryMobile:
		return `Add <meta name="viewport" content="width=device-width, initial-scale=1"> and responsive styles.`
	case model.CategorySSL:
		return "Install a valid certificate from a trusted authority and renew it before expiry."
	case model.CategoryContent:
		return "Use exactly one h1, add alt text to images and at least 300 words of body copy."
	default:
		return ""
	}
}
