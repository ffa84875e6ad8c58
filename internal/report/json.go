package report

import (
	"bytes"
	"encoding/json"
	"io"
)

// JSONWriter outputs history as a single JSON document, for CI scripts
// that track coverage over time.
type JSONWriter struct {
	baseWriter

	// indent is the per-level indentation. Empty means compact output.
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint indents with two spaces.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteHistory outputs the history in JSON format.
func (w *JSONWriter) WriteHistory(h *History) (int, error) {
	return w.encode(h)
}

// encode writes v followed by a newline. File names are not HTML-escaped.
func (w *JSONWriter) encode(v any) (int, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", w.indent)
	if err := enc.Encode(v); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}
