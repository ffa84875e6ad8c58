package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "coverflat"

	// DefaultBadgePath is where the SVG badge is written, relative to the
	// working directory. CI workflows publish this path.
	DefaultBadgePath = "assets/coverage.svg"

	// DefaultSummaryPath is where the Markdown summary is written,
	// relative to the working directory.
	DefaultSummaryPath = "code-coverage-results.md"

	// LogFormatText selects human-readable log lines.
	LogFormatText = "text"

	// LogFormatJSON selects one JSON object per log line.
	LogFormatJSON = "json"
)

// Config holds the settings of one coverflat invocation.
type Config struct {
	// ReportPath is the Cobertura XML report to flatten in place.
	ReportPath string

	// BadgePath is the output path of the SVG badge.
	BadgePath string

	// SummaryPath is the output path of the Markdown summary.
	SummaryPath string

	// Verbose enables debug logging.
	Verbose bool

	// LogFormat is LogFormatText or LogFormatJSON.
	LogFormat string

	// ConfigFilePath is the explicit configuration file given with -c.
	// Empty means the default lookup is used.
	ConfigFilePath string

	// RecordHistory stores every run in the history database.
	RecordHistory bool

	// DBDir is the directory holding the history database.
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BadgePath:   DefaultBadgePath,
		SummaryPath: DefaultSummaryPath,
		LogFormat:   LogFormatText,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for coverflat.
// On Linux: ~/.local/share/coverflat
// On macOS: ~/Library/Application Support/coverflat
// On Windows: %LOCALAPPDATA%\coverflat
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for coverflat.
// On Linux: ~/.config/coverflat
// On macOS: ~/Library/Application Support/coverflat
// On Windows: %APPDATA%\coverflat
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.ReportPath == "" {
		return ErrNoReport
	}
	return c.ValidateLogFormat()
}

// ValidateLogFormat checks only the log format. Commands that take no
// report use it instead of Validate.
func (c *Config) ValidateLogFormat() error {
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat)
	}
}
