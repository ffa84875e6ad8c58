package report

import (
	"io"
)

// Writer defines the interface for history output.
// Implementations write recorded coverage runs in various formats.
type Writer interface {
	// WriteHistory outputs the history to the configured destination.
	// Returns the number of bytes written and any error encountered.
	WriteHistory(h *History) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// dateLayout is used for run timestamps in text and Markdown output.
const dateLayout = "2006-01-02 15:04:05"
