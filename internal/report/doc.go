// Package report renders coverage data for people.
//
// This package contains:
//   - Summary: the per-file coverage table written next to the badge
//   - MarkdownWriter: Markdown output for the summary file and history
//   - SimpleWriter: Human-readable text output of the history for terminals
//   - JSONWriter: Structured JSON output of the history for tool integration
//
// History writers implement the Writer interface, allowing the history
// command to pick one by flag.
package report
