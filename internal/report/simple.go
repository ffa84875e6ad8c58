package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/coverflat/internal/model"
)

// ruleWidth is the width of section separators.
const ruleWidth = 70

// SimpleWriter outputs human-readable text for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose lists per-file changes in the trend section.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteHistory outputs recorded runs and the latest trend.
func (w *SimpleWriter) WriteHistory(h *History) (int, error) {
	var sb strings.Builder

	writeSection(&sb, "COVERAGE HISTORY", "=")
	if h.ReportPath != "" {
		sb.WriteString(fmt.Sprintf("Report: %s\n\n", h.ReportPath))
	}

	if len(h.Runs) == 0 {
		sb.WriteString("No coverage runs recorded yet.\n")
		sb.WriteString("Run coverflat with --history to start recording.\n")
		return w.output.Write([]byte(sb.String()))
	}

	sb.WriteString(fmt.Sprintf("%-6s %-20s %9s %8s  %-12s  %s\n", "ID", "DATE", "COVERAGE", "CLASSES", "DIGEST", "REPORT"))
	for _, r := range h.Runs {
		sb.WriteString(fmt.Sprintf("%-6d %-20s %8.2f%% %8d  %-12s  %s\n",
			r.ID, r.Timestamp.Format(dateLayout), r.Percent(), r.ClassCount, r.ShortDigest(), r.ReportPath))
	}
	sb.WriteString("\n")

	if h.Trend != nil {
		w.writeTrend(&sb, h.Trend)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeTrend writes the comparison between the two newest runs.
func (w *SimpleWriter) writeTrend(sb *strings.Builder, t *model.Trend) {
	writeSection(sb, fmt.Sprintf("TREND (run %d -> run %d)", t.Previous.ID, t.Current.ID), "-")

	sb.WriteString(fmt.Sprintf("  Overall: %.2f%% -> %.2f%% (%+.2f, %s)\n",
		t.Previous.Percent(), t.Current.Percent(), t.Delta, t.Direction))

	if !w.verbose {
		if n := len(t.Files); n > 0 {
			sb.WriteString(fmt.Sprintf("  %d file(s) changed, use --verbose for details\n", n))
		}
		return
	}

	for _, f := range t.Files {
		switch {
		case f.Added:
			sb.WriteString(fmt.Sprintf("  [+] %s: new at %.2f%%\n", f.Filename, f.Current))
		case f.Removed:
			sb.WriteString(fmt.Sprintf("  [-] %s: removed (was %.2f%%)\n", f.Filename, f.Previous))
		default:
			sb.WriteString(fmt.Sprintf("  [*] %s: %.2f%% -> %.2f%% (%+.2f)\n", f.Filename, f.Previous, f.Current, f.Delta))
		}
	}
}

// writeSection writes a title between two rules drawn with ch.
func writeSection(sb *strings.Builder, title, ch string) {
	sb.WriteString(strings.Repeat(ch, ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(ch, ruleWidth))
	sb.WriteString("\n\n")
}
