package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/coverflat/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// summaryTitle and summaryFooter frame the summary file.
const (
	summaryTitle  = "Code Coverage Summary"
	summaryFooter = "Generated by CI Pipeline"
)

// MarkdownWriter outputs coverage in Markdown format.
// It writes the summary file published by CI and the history report.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteSummary outputs the per-file coverage table.
func (w *MarkdownWriter) WriteSummary(s *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H2(summaryTitle)
	md.PlainText("")
	md.PlainTextf("%s %.2f%%", markdown.Bold("Overall Coverage:"), s.Overall)
	md.PlainText("")

	rows := make([][]string, 0, len(s.Rows))
	for _, r := range s.Rows {
		rows = append(rows, []string{
			markdown.Code(r.Filename),
			fmt.Sprintf("%.2f%% %s", r.Percent, r.Status),
			r.Lines,
		})
	}
	md.Table(markdown.TableSet{
		Header:    []string{"File", "Coverage", "Lines"},
		Rows:      rows,
		Alignment: []markdown.TableAlignment{markdown.AlignLeft, markdown.AlignCenter, markdown.AlignCenter},
	})

	md.Blockquote(summaryFooter)

	return len(md.String()), md.Build()
}

// WriteHistory outputs recorded runs and the latest trend in Markdown format.
func (w *MarkdownWriter) WriteHistory(h *History) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Coverage History")
	md.PlainText("")
	if h.ReportPath != "" {
		md.PlainTextf("%s %s", markdown.Bold("Report:"), markdown.Code(h.ReportPath))
		md.PlainText("")
	}

	if len(h.Runs) == 0 {
		md.Note("No coverage runs recorded yet. Run coverflat with --history to start recording.")
		return len(md.String()), md.Build()
	}

	w.writeRuns(md, h)
	w.writeLatest(md, h.Runs[0])
	if h.Trend != nil {
		w.writeTrend(md, h.Trend)
	}

	return len(md.String()), md.Build()
}

// writeRuns writes the table of recorded runs.
func (w *MarkdownWriter) writeRuns(md *markdown.Markdown, h *History) {
	md.H2("Runs")
	md.PlainText("")

	rows := make([][]string, 0, len(h.Runs))
	for _, r := range h.Runs {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Timestamp.Format(dateLayout),
			markdown.Code(r.ReportPath),
			fmt.Sprintf("%.2f%%", r.Percent()),
			strconv.Itoa(r.ClassCount),
			markdown.Code(r.ShortDigest()),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Date", "Report", "Coverage", "Classes", "Digest"},
		Rows:   rows,
		Alignment: []markdown.TableAlignment{
			markdown.AlignRight, markdown.AlignLeft, markdown.AlignLeft,
			markdown.AlignRight, markdown.AlignRight, markdown.AlignLeft,
		},
	})
}

// writeLatest writes a covered/uncovered pie chart for the newest run.
func (w *MarkdownWriter) writeLatest(md *markdown.Markdown, run *model.Run) {
	pct := run.Percent()
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(fmt.Sprintf("Latest run #%d", run.ID)),
		piechart.WithShowData(true),
	)
	chart.LabelAndFloatValue("Covered", pct)
	chart.LabelAndFloatValue("Uncovered", 100-pct)

	md.H2("Latest Run")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeTrend writes the comparison between the two newest runs.
func (w *MarkdownWriter) writeTrend(md *markdown.Markdown, t *model.Trend) {
	md.H2("Trend")
	md.PlainText("")

	switch t.Direction {
	case model.TrendImproved:
		md.Tipf("Coverage improved by %.2f points since run #%d.", t.Delta, t.Previous.ID)
	case model.TrendDeclined:
		md.Warningf("Coverage declined by %.2f points since run #%d.", -t.Delta, t.Previous.ID)
	default:
		md.Notef("Coverage unchanged since run #%d.", t.Previous.ID)
	}
	md.PlainText("")

	if len(t.Files) == 0 {
		return
	}

	rows := make([][]string, 0, len(t.Files))
	for _, f := range t.Files {
		rows = append(rows, []string{
			markdown.Code(f.Filename),
			fileBefore(f),
			fileAfter(f),
			fmt.Sprintf("%+.2f", f.Delta),
		})
	}
	md.Table(markdown.TableSet{
		Header:    []string{"File", "Before", "After", "Change"},
		Rows:      rows,
		Alignment: []markdown.TableAlignment{markdown.AlignLeft, markdown.AlignRight, markdown.AlignRight, markdown.AlignRight},
	})
}

// fileBefore renders the previous coverage of a file, or "new" when added.
func fileBefore(f model.FileDelta) string {
	if f.Added {
		return "new"
	}
	return fmt.Sprintf("%.2f%%", f.Previous)
}

// fileAfter renders the current coverage of a file, or "removed".
func fileAfter(f model.FileDelta) string {
	if f.Removed {
		return "removed"
	}
	return fmt.Sprintf("%.2f%%", f.Current)
}
