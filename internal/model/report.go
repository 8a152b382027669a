package model

import (
	"time"
)

// AnalysisRequest describes one analysis run. Immutable once created.
type AnalysisRequest struct {
	// URL is the validated absolute http/https target.
	URL string `json:"url"`

	// Timeout bounds the whole analysis, fetch and checks included.
	Timeout time.Duration `json:"timeout"`

	// Checks optionally restricts which categories run; empty means all.
	Checks []Category `json:"checks,omitempty"`
}

// AnalysisStatus is the overall outcome of a run.
type AnalysisStatus string

const (
	// StatusCompleted means every requested check ran.
	StatusCompleted AnalysisStatus = "completed"

	// StatusPartial means one or more checks could not complete but an
	// overall score was still produced.
	StatusPartial AnalysisStatus = "partial"

	// StatusFailed means the fetch itself could not be completed and no
	// score is computable.
	StatusFailed AnalysisStatus = "failed"
)

// PartialFailure records one category that could not complete and why.
type PartialFailure struct {
	Category Category `json:"category"`
	Reason   string   `json:"reason"`
}

// Recommendation is one prioritized improvement derived from the findings.
type Recommendation struct {
	Category    Category `json:"category"`
	Priority    Severity `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Solution    string   `json:"solution,omitempty"`
}

// AnalysisReport is the finalized result of one analysis. Created once per
// request and never mutated after the aggregator finalizes it.
type AnalysisReport struct {
	ID  string `json:"id"`
	URL string `json:"url"`

	Status AnalysisStatus `json:"status"`

	// Score is the weighted overall score in [0,100]. Nil when Status is
	// failed: a score that could not be computed is absent, not zero.
	Score *int `json:"score"`

	// CategoryScores holds each category's sub-score. A category with no
	// findings scores 100 (no issues detected).
	CategoryScores map[Category]int `json:"category_scores,omitempty"`

	// Findings in prioritized order: severity desc, category weight desc,
	// detection order.
	Findings []Finding `json:"findings"`

	// Recommendations derived from the findings, same priority order.
	Recommendations []Recommendation `json:"recommendations,omitempty"`

	// PartialFailures lists checks that could not complete and why.
	PartialFailures []PartialFailure `json:"partial_failures,omitempty"`

	// Error carries the fetch-level failure message when Status is failed.
	Error string `json:"error,omitempty"`

	Fetch       *FetchResult     `json:"fetch,omitempty"`
	Certificate *CertificateInfo `json:"certificate,omitempty"`

	Elapsed   time.Duration `json:"elapsed"`
	CreatedAt time.Time     `json:"created_at"`
}

// ScoreColor maps a score to the hex color band the UI layer renders it in.
func ScoreColor(score int) string {
	switch {
	case score >= 90:
		return "#28a745"
	case score >= 70:
		return "#ffc107"
	case score >= 50:
		return "#fd7e14"
	default:
		return "#dc3545"
	}
}
