package pipeline

import (
	"github.com/nao1215/coverflat/internal/coverage"
	"github.com/nao1215/coverflat/internal/model"
)

// Run carries the state of one invocation between steps.
type Run struct {
	// ReportPath is the Cobertura XML file to transform in place.
	ReportPath string

	// BadgePath is where the SVG badge is written.
	BadgePath string

	// SummaryPath is where the Markdown summary is written.
	SummaryPath string

	// Report is set by the load step.
	Report *coverage.Report

	// LineRate is the root line-rate, read once before flattening.
	LineRate string

	// Classes are the flattened classes in document order.
	Classes []coverage.Class

	// Record is the history entry, set when history is enabled.
	Record *model.Run

	// PerformedSteps lists the steps that completed, in order.
	PerformedSteps []string

	// Err is the error of the failing step, if any.
	Err error
}

// NewRun creates the state for transforming reportPath.
func NewRun(reportPath, badgePath, summaryPath string) *Run {
	return &Run{
		ReportPath:     reportPath,
		BadgePath:      badgePath,
		SummaryPath:    summaryPath,
		PerformedSteps: make([]string, 0),
	}
}
