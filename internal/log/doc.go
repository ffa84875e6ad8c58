// Package log builds the slog loggers used by coverflat.
//
// Loggers write to stderr so that stdout carries only the status lines of
// the pipeline. The level is Warn by default and Debug in verbose mode.
//
// # Home directory masking
//
// Coverage runs happen in CI, where logs are often public. The PathHandler
// replaces the user's home directory with "~" in every string and error
// attribute before the record reaches the underlying handler:
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Debug("loaded report", "path", "/home/ci/project/coverage.xml")
//	// path=~/project/coverage.xml
//
//	slog.SetDefault(logger)
package log
