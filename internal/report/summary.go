package report

import (
	"fmt"
	"os"

	"github.com/nao1215/coverflat/internal/coverage"
)

const (
	// StatusPass marks a file at or above PassThreshold.
	StatusPass = "🟢"
	// StatusFail marks a file below PassThreshold.
	StatusFail = "🔴"
	// PassThreshold is the percentage a file needs for StatusPass.
	PassThreshold = 90.0
	// LinesPlaceholder fills the Lines column. Per-file line counts
	// are not reported in the summary table.
	LinesPlaceholder = "-"
)

// Row is one line of the summary table.
type Row struct {
	Filename string
	Percent  float64
	Status   string
	Lines    string
}

// Summary is the per-file coverage table of one flattened report.
type Summary struct {
	// Overall is the root line-rate of the report as a percentage.
	Overall float64

	// Rows follow the order of the classes in the report.
	Rows []Row
}

// NewSummary builds a summary from flattened classes and the root
// line-rate captured before flattening. Unparsable rates count as 0.
func NewSummary(classes []coverage.Class, overallRate string) *Summary {
	rows := make([]Row, 0, len(classes))
	for _, c := range classes {
		pct := coverage.Percent(c.LineRate)
		rows = append(rows, Row{
			Filename: c.Filename,
			Percent:  pct,
			Status:   StatusFor(pct),
			Lines:    LinesPlaceholder,
		})
	}
	return &Summary{
		Overall: coverage.Percent(overallRate),
		Rows:    rows,
	}
}

// StatusFor returns the status glyph for a coverage percentage.
func StatusFor(percent float64) string {
	if percent >= PassThreshold {
		return StatusPass
	}
	return StatusFail
}

// WriteSummaryFile renders s as Markdown into path, replacing any
// existing file.
func WriteSummaryFile(path string, s *Summary) error {
	f, err := os.Create(path) //nolint:gosec // path is fixed by the caller
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}

	if _, err := NewMarkdownWriter(f).WriteSummary(s); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close summary file: %w", err)
	}
	return nil
}
