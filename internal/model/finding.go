package model

// Category identifies one SEO check area. The set is a fixed enumeration:
// scoring weights and report sections are keyed by it, and keeping it closed
// lets the aggregator validate its weight table at startup.
type Category string

const (
	CategoryMeta        Category = "meta"
	CategoryPerformance Category = "performance"
	CategoryLinks       Category = "links"
	CategoryMobile      Category = "mobile"
	CategorySSL         Category = "ssl"
	CategoryContent     Category = "content"
)

// Categories lists every check category in detection order. The order is the
// declared order of the checkers, not their completion order, so prioritized
// output is deterministic regardless of scheduling.
var Categories = []Category{
	CategoryMeta,
	CategoryPerformance,
	CategoryLinks,
	CategoryMobile,
	CategorySSL,
	CategoryContent,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Severity buckets a finding by impact.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank orders severities for prioritization; higher means more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Finding is one detected issue or observation from a single check category.
// Immutable once produced; checkers hand findings to the aggregator and never
// touch them again.
type Finding struct {
	// Category is the check category this finding belongs to.
	Category Category `json:"category"`

	// Severity is one of critical, warning, info.
	Severity Severity `json:"severity"`

	// Message is a short human-readable explanation of the finding.
	Message string `json:"message"`

	// Score is the finding's sub-score contribution in [0,100]. A category's
	// sub-score is the mean of its findings' scores; 100 means the finding is
	// purely informational and does not pull the category down.
	Score int `json:"score"`

	// Value contains the raw value that triggered the finding (length,
	// elapsed time, count, ...). Optional.
	Value any `json:"value,omitempty"`
}
