package report

import "github.com/nao1215/coverflat/internal/model"

// History is the list of recorded runs shown by the history command.
type History struct {
	// ReportPath filters the runs to one report. Empty means all reports.
	ReportPath string `json:"report_path,omitempty"`

	// Runs are ordered newest first.
	Runs []*model.Run `json:"runs"`

	// Trend compares the two newest runs. Nil with fewer than two runs
	// or when they belong to different reports.
	Trend *model.Trend `json:"trend,omitempty"`
}

// NewHistory wraps runs (newest first) and computes the latest trend.
func NewHistory(reportPath string, runs []*model.Run) *History {
	h := &History{
		ReportPath: reportPath,
		Runs:       runs,
	}
	if h.Runs == nil {
		h.Runs = []*model.Run{}
	}
	if len(runs) >= 2 && runs[0].ReportPath == runs[1].ReportPath {
		h.Trend = model.CompareRuns(runs[1], runs[0])
	}
	return h
}
