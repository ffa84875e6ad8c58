package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/coverflat/internal/model"
)

// createTestHistory creates a history of two runs of the same report.
func createTestHistory() *History {
	older := &model.Run{
		ID:         1,
		ReportPath: "coverage.xml",
		Timestamp:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		LineRate:   "0.5",
		ClassCount: 2,
		Digest:     "aaaaaaaaaaaaaaaaaaaaaaaa",
		Files: []model.FileCoverage{
			{Filename: "a.py", LineRate: "1.0"},
			{Filename: "b.py", LineRate: "0.0"},
		},
	}
	newer := &model.Run{
		ID:         2,
		ReportPath: "coverage.xml",
		Timestamp:  time.Date(2026, 1, 3, 3, 4, 5, 0, time.UTC),
		LineRate:   "0.75",
		ClassCount: 2,
		Digest:     "bbbbbbbbbbbbbbbbbbbbbbbb",
		Files: []model.FileCoverage{
			{Filename: "a.py", LineRate: "1.0"},
			{Filename: "b.py", LineRate: "0.5"},
		},
	}
	return NewHistory("coverage.xml", []*model.Run{newer, older})
}

// TestNewHistory tests trend computation when wrapping runs.
func TestNewHistory(t *testing.T) {
	t.Parallel()

	t.Run("compares the two newest runs", func(t *testing.T) {
		t.Parallel()
		h := createTestHistory()
		if h.Trend == nil {
			t.Fatal("expected trend to be set")
		}
		if h.Trend.Previous.ID != 1 || h.Trend.Current.ID != 2 {
			t.Errorf("got %d -> %d, expected 1 -> 2", h.Trend.Previous.ID, h.Trend.Current.ID)
		}
		if h.Trend.Direction != model.TrendImproved {
			t.Errorf("got %q, expected %q", h.Trend.Direction, model.TrendImproved)
		}
	})

	t.Run("no trend for a single run", func(t *testing.T) {
		t.Parallel()
		h := NewHistory("", []*model.Run{{ID: 1}})
		if h.Trend != nil {
			t.Error("expected no trend")
		}
	})

	t.Run("no trend across different reports", func(t *testing.T) {
		t.Parallel()
		h := NewHistory("", []*model.Run{
			{ID: 2, ReportPath: "a.xml"},
			{ID: 1, ReportPath: "b.xml"},
		})
		if h.Trend != nil {
			t.Error("expected no trend")
		}
	})

	t.Run("nil runs become an empty list", func(t *testing.T) {
		t.Parallel()
		h := NewHistory("", nil)
		if h.Runs == nil {
			t.Error("expected non-nil runs")
		}
	})
}

// TestSimpleWriter tests the human-readable history writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and runs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteHistory(createTestHistory()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"COVERAGE HISTORY",
			"Report: coverage.xml",
			"2026-01-03 03:04:05",
			"75.00%",
			"bbbbbbbbbbbb",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q:\n%s", want, output)
			}
		}
		if strings.Contains(output, "bbbbbbbbbbbbb") {
			t.Error("expected digest to be shortened")
		}
	})

	t.Run("writes trend summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteHistory(createTestHistory()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "TREND (run 1 -> run 2)") {
			t.Error("expected output to contain trend header")
		}
		if !strings.Contains(output, "50.00% -> 75.00% (+25.00, improved)") {
			t.Errorf("expected overall trend line, got:\n%s", output)
		}
		if !strings.Contains(output, "1 file(s) changed") {
			t.Error("expected changed file count")
		}
	})

	t.Run("verbose mode lists changed files", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))
		if _, err := w.WriteHistory(createTestHistory()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[*] b.py: 0.00% -> 50.00% (+50.00)") {
			t.Errorf("expected per-file change, got:\n%s", output)
		}
		if strings.Contains(output, "a.py") {
			t.Error("unchanged file should not be listed")
		}
	})

	t.Run("handles empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteHistory(NewHistory("", nil)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No coverage runs recorded yet.") {
			t.Error("expected empty history message")
		}
	})

	t.Run("returns bytes written", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).WriteHistory(createTestHistory())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("got %d, expected %d", n, buf.Len())
		}
	})
}

// TestJSONWriter tests the JSON history writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteHistory(createTestHistory()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded History
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded.Runs) != 2 {
			t.Errorf("got %d runs, expected 2", len(decoded.Runs))
		}
		if decoded.Trend == nil || decoded.Trend.Direction != model.TrendImproved {
			t.Errorf("unexpected trend: %+v", decoded.Trend)
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteHistory(createTestHistory()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := strings.TrimSuffix(buf.String(), "\n")
		if strings.Contains(output, "\n") {
			t.Error("expected compact single-line output")
		}
	})

	t.Run("pretty print with indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteHistory(createTestHistory()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"report_path\"") {
			t.Errorf("expected two-space indentation, got:\n%s", buf.String())
		}
	})

	t.Run("does not escape angle brackets in paths", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteHistory(NewHistory("out/<ci>&cov.xml", nil)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"report_path":"out/<ci>&cov.xml"`) {
			t.Errorf("expected raw path, got %s", buf.String())
		}
	})

	t.Run("empty history has an empty runs array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteHistory(NewHistory("", nil)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"runs":[]`) {
			t.Errorf("expected empty runs array, got %s", buf.String())
		}
	})
}

// TestMarkdownWriterHistory tests the Markdown history writer.
func TestMarkdownWriterHistory(t *testing.T) {
	t.Parallel()

	t.Run("writes runs table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteHistory(createTestHistory()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Coverage History") {
			t.Error("expected title")
		}
		if !strings.Contains(output, "| ID | Date | Report | Coverage | Classes | Digest |") {
			t.Errorf("expected runs table header, got:\n%s", output)
		}
		if !strings.Contains(output, "| 2 | 2026-01-03 03:04:05 | `coverage.xml` | 75.00% | 2 | `bbbbbbbbbbbb` |") {
			t.Errorf("expected newest run row, got:\n%s", output)
		}
	})

	t.Run("includes pie chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteHistory(createTestHistory()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "```mermaid") {
			t.Error("expected mermaid code block")
		}
	})

	t.Run("includes trend alert and file table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteHistory(createTestHistory()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[!TIP]") {
			t.Error("expected tip alert for improvement")
		}
		if !strings.Contains(output, "Coverage improved by 25.00 points since run #1.") {
			t.Errorf("expected improvement text, got:\n%s", output)
		}
		if !strings.Contains(output, "| `b.py` | 0.00% | 50.00% | +50.00 |") {
			t.Errorf("expected file change row, got:\n%s", output)
		}
	})

	t.Run("handles empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteHistory(NewHistory("", nil)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No coverage runs recorded yet.") {
			t.Error("expected empty history note")
		}
	})
}

// TestWriterInterface checks that all history writers satisfy Writer.
func TestWriterInterface(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	writers := map[string]Writer{
		"simple":   NewSimpleWriter(&buf),
		"json":     NewJSONWriter(&buf),
		"markdown": NewMarkdownWriter(&buf),
	}
	for name, w := range writers {
		if w == nil {
			t.Errorf("%s writer is nil", name)
		}
	}
}
