package model

import "math"

// TrendDirection describes how coverage moved between two runs.
type TrendDirection string

const (
	// TrendImproved means coverage went up.
	TrendImproved TrendDirection = "improved"
	// TrendDeclined means coverage went down.
	TrendDeclined TrendDirection = "declined"
	// TrendUnchanged means the difference is below display precision.
	TrendUnchanged TrendDirection = "unchanged"
)

// trendEpsilon is half of the smallest step shown by "%.2f".
const trendEpsilon = 0.005

// Trend compares two runs of the same report.
type Trend struct {
	Previous  *Run           `json:"previous"`
	Current   *Run           `json:"current"`
	Delta     float64        `json:"delta"`
	Direction TrendDirection `json:"direction"`
	Files     []FileDelta    `json:"files,omitempty"`
}

// FileDelta is the change of one file between two runs.
// Added and Removed mark files present in only one of them.
type FileDelta struct {
	Filename string         `json:"filename"`
	Previous float64        `json:"previous"`
	Current  float64        `json:"current"`
	Delta    float64        `json:"delta"`
	Added    bool           `json:"added,omitempty"`
	Removed  bool           `json:"removed,omitempty"`
	Change   TrendDirection `json:"change"`
}

// fileKey identifies a file within a run. Filenames are not unique, so
// the nth class with a given filename is matched with the nth class of the
// same filename in the other run.
type fileKey struct {
	filename   string
	occurrence int
}

// keyFiles returns the key of each file, in order.
func keyFiles(files []FileCoverage) []fileKey {
	counts := make(map[string]int, len(files))
	keys := make([]fileKey, len(files))
	for i, f := range files {
		keys[i] = fileKey{filename: f.Filename, occurrence: counts[f.Filename]}
		counts[f.Filename]++
	}
	return keys
}

// CompareRuns computes the trend from previous to current.
// Only files whose coverage changed, appeared or disappeared are listed:
// files of the current run first in report order, then removed files.
func CompareRuns(previous, current *Run) *Trend {
	delta := current.Percent() - previous.Percent()
	trend := &Trend{
		Previous:  previous,
		Current:   current,
		Delta:     delta,
		Direction: directionOf(delta),
	}

	previousKeys := keyFiles(previous.Files)
	before := make(map[fileKey]float64, len(previous.Files))
	for i, f := range previous.Files {
		before[previousKeys[i]] = f.Percent()
	}

	currentKeys := keyFiles(current.Files)
	seen := make(map[fileKey]bool, len(current.Files))
	for i, f := range current.Files {
		key := currentKeys[i]
		seen[key] = true
		now := f.Percent()
		old, ok := before[key]
		if !ok {
			trend.Files = append(trend.Files, FileDelta{
				Filename: f.Filename,
				Current:  now,
				Delta:    now,
				Added:    true,
				Change:   directionOf(now),
			})
			continue
		}
		d := now - old
		if directionOf(d) == TrendUnchanged {
			continue
		}
		trend.Files = append(trend.Files, FileDelta{
			Filename: f.Filename,
			Previous: old,
			Current:  now,
			Delta:    d,
			Change:   directionOf(d),
		})
	}

	for i, f := range previous.Files {
		if seen[previousKeys[i]] {
			continue
		}
		old := f.Percent()
		trend.Files = append(trend.Files, FileDelta{
			Filename: f.Filename,
			Previous: old,
			Delta:    -old,
			Removed:  true,
			Change:   directionOf(-old),
		})
	}
	return trend
}

func directionOf(delta float64) TrendDirection {
	switch {
	case math.Abs(delta) < trendEpsilon:
		return TrendUnchanged
	case delta > 0:
		return TrendImproved
	default:
		return TrendDeclined
	}
}
