package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/coverflat/internal/database"
	"github.com/nao1215/coverflat/internal/model"
	"github.com/nao1215/coverflat/internal/report"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of runs shown by default.
const defaultHistoryLimit = 20

// errRunNotFound is returned when --with-run names an unknown run ID.
var errRunNotFound = errors.New("coverage run not found")

// NewHistoryCmd creates the history command.
// This command shows coverage runs recorded with --history.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [report-path]",
		Short: "Show recorded coverage runs and the latest trend",
		Long: `History displays the coverage runs recorded in the history database.

For each run it shows the date, the overall coverage, the number of classes
and the digest of the flattened report. When the two newest runs belong to the
same report, the change in overall and per-file coverage is shown as well.

Runs are recorded only when coverflat is called with --history or when
history.enabled is set in the configuration file.

Examples:
  # Show the latest runs of a report
  coverflat history coverage/cobertura.xml

  # Show the latest runs of every report
  coverflat history

  # Show per-file changes between the two newest runs
  coverflat history -v coverage/cobertura.xml

  # Compare the newest run with a specific run by ID
  coverflat history --with-run 5 coverage/cobertura.xml

  # Output history in JSON format
  coverflat history --json coverage/cobertura.xml

  # List all reports in the database
  coverflat history --list-reports`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	// Listing flags
	cmd.Flags().BoolP("list-reports", "L", false,
		"List all reports that have coverage history")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to show (0 shows all)")

	// Comparison target flags
	cmd.Flags().Int64P("with-run", "i", 0,
		"Compare the newest run of the report with a specific run by ID")
	cmd.MarkFlagsMutuallyExclusive("with-run", "list-reports")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output history in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output history in Markdown format")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateLogFormat(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := setupLogger(cmd.ErrOrStderr(), cfg)

	listReports, err := cmd.Flags().GetBool("list-reports")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	withRun, err := cmd.Flags().GetInt64("with-run")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	// Only read an existing database, never create one
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false

	db, err := database.Open(cfg.DBDir, opts)
	if err != nil {
		if errors.Is(err, database.ErrDatabaseNotFound) {
			printNoHistory(out)
			return nil
		}
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Debug("database opened", "path", db.Path())

	ctx := cmd.Context()

	if listReports {
		return listRecordedReports(ctx, out, db)
	}

	var reportPath string
	if len(args) == 1 {
		reportPath = args[0]
	}

	var history *report.History
	if withRun > 0 {
		history, err = historyAgainstRun(ctx, db, reportPath, withRun)
	} else {
		history, err = latestHistory(ctx, db, reportPath, limit)
	}
	if err != nil {
		return err
	}
	logger.Debug("history loaded", "report", history.ReportPath, "runs", len(history.Runs))

	var w report.Writer
	switch {
	case jsonOutput:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case markdownOutput:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}

	if _, err := w.WriteHistory(history); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// latestHistory returns the newest runs of reportPath, or of every report
// when reportPath is empty.
func latestHistory(ctx context.Context, db *database.HistoryDB, reportPath string, limit int) (*report.History, error) {
	runs, err := db.GetHistory(ctx, reportPath, limit)
	if err != nil {
		return nil, err
	}
	return report.NewHistory(reportPath, runs), nil
}

// historyAgainstRun returns the run with the given ID and the newest run of
// the same report, so that the trend spans both.
func historyAgainstRun(ctx context.Context, db *database.HistoryDB, reportPath string, id int64) (*report.History, error) {
	base, err := db.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, fmt.Errorf("%w: %d (use 'coverflat history' to see available IDs)", errRunNotFound, id)
	}
	if reportPath != "" && reportPath != base.ReportPath {
		return nil, fmt.Errorf("run %d belongs to %s, not %s", id, base.ReportPath, reportPath)
	}

	latest, err := db.GetHistory(ctx, base.ReportPath, 1)
	if err != nil {
		return nil, err
	}

	runs := []*model.Run{base}
	if len(latest) == 1 && latest[0].ID != base.ID {
		runs = []*model.Run{latest[0], base}
	}
	return report.NewHistory(base.ReportPath, runs), nil
}

// printNoHistory explains how to start recording runs.
func printNoHistory(out io.Writer) {
	fmt.Fprintln(out, "No coverage history found.")
	fmt.Fprintln(out, "\nUse 'coverflat --history <cobertura.xml>' to record a run.")
}

// listRecordedReports lists all reports that have runs in the database.
func listRecordedReports(ctx context.Context, out io.Writer, db *database.HistoryDB) error {
	reports, err := db.ListReports(ctx)
	if err != nil {
		return err
	}

	if len(reports) == 0 {
		printNoHistory(out)
		return nil
	}

	fmt.Fprintf(out, "Reports with coverage history (%d):\n\n", len(reports))
	fmt.Fprintf(out, "  %-40s  %5s  %s\n", "Report", "Runs", "Last run")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 68))

	for _, r := range reports {
		fmt.Fprintf(out, "  %-40s  %5d  %s\n",
			r.ReportPath,
			r.RunCount,
			r.LastRun.Local().Format("2006-01-02 15:04:05"),
		)
	}
	fmt.Fprintln(out, "\nUse 'coverflat history <report-path>' to see the runs of one report.")

	return nil
}
