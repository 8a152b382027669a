package interfaces

import (
	"context"

	"github.com/seolens/seolens/internal/model"
)

// Analyzer is the single entry point the outer layers (HTTP API, CLI)
// program against. One call, one report; the implementation owns all
// fan-out, deadlines and partial-failure handling behind it.
type Analyzer interface {
	// Analyze runs the check battery against url and always returns a
	// structured report. checks optionally restricts the run to some
	// categories; empty means all. Pipeline-internal faults surface as a
	// failed report, never as a panic; the error return is reserved for
	// invalid input.
	Analyze(ctx context.Context, url string, checks ...model.Category) (*model.AnalysisReport, error)

	// Close releases resources held by the analyzer.
	Close() error
}
