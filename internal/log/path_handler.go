package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// HomeMask replaces the home directory in logged paths.
const HomeMask = "~"

// PathHandler wraps an slog.Handler to mask the home directory in
// attribute values.
type PathHandler struct {
	// handler is the underlying slog handler that receives masked records.
	handler slog.Handler

	// home is the directory to mask. Empty disables masking.
	home string
}

// NewPathHandler creates a new PathHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewPathHandler(handler slog.Handler, home string) *PathHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	home = strings.TrimSuffix(home, string(filepath.Separator))
	return &PathHandler{handler: handler, home: home}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PathHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it to the underlying handler.
func (h *PathHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, h.mask(r.Message), r.PC)

	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})

	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *PathHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		maskedAttrs[i] = h.maskAttr(a)
	}
	return &PathHandler{handler: h.handler.WithAttrs(maskedAttrs), home: h.home}
}

// WithGroup returns a new handler with the given group name.
func (h *PathHandler) WithGroup(name string) slog.Handler {
	return &PathHandler{handler: h.handler.WithGroup(name), home: h.home}
}

// maskAttr masks a single attribute, recursively handling groups.
func (h *PathHandler) maskAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		maskedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			maskedAttrs[i] = h.maskAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskedAttrs...)}
	case slog.KindString:
		return slog.String(a.Key, h.mask(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, h.mask(err.Error()))
		}
	}

	return a
}

// mask replaces every occurrence of the home directory in s.
// Only whole path prefixes are replaced: "/home/ci" does not match
// "/home/cicd".
func (h *PathHandler) mask(s string) string {
	if h.home == "" || !strings.Contains(s, h.home) {
		return s
	}

	var sb strings.Builder
	rest := s
	for {
		i := strings.Index(rest, h.home)
		if i < 0 {
			sb.WriteString(rest)
			break
		}
		end := i + len(h.home)
		sb.WriteString(rest[:i])
		if end == len(rest) || rest[end] == filepath.Separator {
			sb.WriteString(HomeMask)
		} else {
			sb.WriteString(h.home)
		}
		rest = rest[end:]
	}
	return sb.String()
}

// userHome returns the home directory, or "" when it is unknown.
func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// levelFor returns Debug in verbose mode and Warn otherwise.
func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewLogger creates a text slog.Logger that masks the home directory.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: levelFor(verbose),
	}
	return slog.New(NewPathHandler(slog.NewTextHandler(w, opts), userHome()))
}

// NewJSONLogger creates a JSON slog.Logger that masks the home directory.
// Useful for structured log aggregation in CI.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: levelFor(verbose),
	}
	return slog.New(NewPathHandler(slog.NewJSONHandler(w, opts), userHome()))
}
