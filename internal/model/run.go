package model

import (
	"time"

	"github.com/nao1215/coverflat/internal/coverage"
)

// Run is one recorded flattening of a Cobertura report.
type Run struct {
	// ID is assigned by the history database. Zero until saved.
	ID int64 `json:"id"`

	// ReportPath is the path of the report as given on the command line.
	ReportPath string `json:"report_path"`

	// Timestamp is when the run happened.
	Timestamp time.Time `json:"timestamp"`

	// LineRate is the root line-rate attribute captured before flattening.
	LineRate string `json:"line_rate"`

	// ClassCount is the number of classes split into their own packages.
	ClassCount int `json:"class_count"`

	// Digest is the hex SHA3-256 of the rewritten report.
	Digest string `json:"digest,omitempty"`

	// Files holds one entry per class, in report order.
	Files []FileCoverage `json:"files,omitempty"`
}

// FileCoverage is the coverage recorded for a single class.
type FileCoverage struct {
	Filename     string `json:"filename"`
	LineRate     string `json:"line_rate"`
	LinesCovered int    `json:"lines_covered"`
	LinesTotal   int    `json:"lines_total"`
}

// NewRun builds a Run from the flattened classes of a report.
func NewRun(reportPath, lineRate string, classes []coverage.Class) *Run {
	files := make([]FileCoverage, 0, len(classes))
	for _, c := range classes {
		covered, total := c.LineCount()
		files = append(files, FileCoverage{
			Filename:     c.Filename,
			LineRate:     c.LineRate,
			LinesCovered: covered,
			LinesTotal:   total,
		})
	}
	return &Run{
		ReportPath: reportPath,
		Timestamp:  time.Now(),
		LineRate:   lineRate,
		ClassCount: len(classes),
		Files:      files,
	}
}

// Percent returns the overall coverage of the run as a percentage.
func (r *Run) Percent() float64 {
	return coverage.Percent(r.LineRate)
}

// ShortDigest returns the first 12 characters of the digest.
func (r *Run) ShortDigest() string {
	const n = 12
	if len(r.Digest) <= n {
		return r.Digest
	}
	return r.Digest[:n]
}

// Percent returns the coverage of the file as a percentage.
func (f FileCoverage) Percent() float64 {
	return coverage.Percent(f.LineRate)
}
