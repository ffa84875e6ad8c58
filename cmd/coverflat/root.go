// Package main provides the entry point for the coverflat CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/coverflat/internal/config"
	"github.com/nao1215/coverflat/internal/database"
	"github.com/nao1215/coverflat/internal/log"
	"github.com/nao1215/coverflat/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for coverflat.
// The root command itself runs the coverage pipeline on one report.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coverflat <cobertura.xml>",
		Short: "Flatten a Cobertura coverage report and render a badge and summary",
		Long: `coverflat post-processes a Cobertura XML coverage report (for example one
produced by kcov) in a CI pipeline.

It performs the following steps:
- Writes an SVG coverage badge to assets/coverage.svg
- Moves every class into its own package and rewrites the report in place
- Writes a Markdown coverage table to code-coverage-results.md

With --history, the run is also recorded in a local SQLite database so that
'coverflat history' can show how coverage changed over time.

A first argument equal to a subcommand name (init, history, version) runs that
subcommand. To transform a report file with such a name, pass it as a path,
for example ./history.

Examples:
  # Transform a report
  coverflat coverage/cobertura.xml

  # Transform and record the run in the coverage history
  coverflat --history coverage/cobertura.xml

  # Emit JSON logs with debug details on stderr
  coverflat -v --log-format json coverage/cobertura.xml

  # Transform a report file named like a subcommand
  coverflat ./history`,
		Version:       getVersion(),
		Args:          exactlyOneReport,
		RunE:          runRootCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", config.LogFormatText,
		"Log format on stderr (text or json)")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .coverflat in current or home directory)")
	cmd.PersistentFlags().String("history-dir", "",
		"Directory of the coverage history database (default: XDG data directory)")

	// Pipeline flags
	cmd.Flags().Bool("history", false,
		"Record this run in the coverage history database")

	// Add subcommands
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stdout, "Error: %v\n", err)
		os.Exit(1)
	}
}

// exactlyOneReport accepts a single report path. Anything else prints the
// usage text to stdout before failing.
func exactlyOneReport(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
		return fmt.Errorf("expected exactly one coverage report, got %d arguments", len(args))
	}
	return nil
}

// runRootCmd executes the coverage pipeline.
func runRootCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	cfg.ReportPath = args[0]

	if cmd.Flags().Changed("history") {
		cfg.RecordHistory, err = cmd.Flags().GetBool("history")
		if err != nil {
			return err
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	return runTransform(ctx, cmd.OutOrStdout(), cfg, logger)
}

// buildConfig creates the configuration from the config file and flags.
// Flags that were set explicitly override values from the file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use defaults if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose, err = cmd.Flags().GetBool("verbose")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat, err = cmd.Flags().GetString("log-format")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("history-dir") {
		cfg.DBDir, err = cmd.Flags().GetString("history-dir")
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// setupLogger creates the logger selected by the configuration.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.LogFormat == config.LogFormatJSON {
		return log.NewJSONLogger(w, cfg.Verbose)
	}
	return log.NewLogger(w, cfg.Verbose)
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// runTransform runs the pipeline on cfg.ReportPath.
func runTransform(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	logger.Debug("starting transform",
		"report", cfg.ReportPath,
		"badge", cfg.BadgePath,
		"summary", cfg.SummaryPath,
		"history", cfg.RecordHistory,
	)

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineOutput(out),
	}

	// Open database connection if history is enabled
	if cfg.RecordHistory {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Debug("database opened", "path", db.Path())

		configOpts = append(configOpts, pipeline.WithPipelineRecorder(db))
	}

	p := pipeline.DefaultPipeline([]pipeline.Option{pipeline.WithLogger(logger)}, configOpts...)
	run := pipeline.NewRun(cfg.ReportPath, cfg.BadgePath, cfg.SummaryPath)

	if err := p.Execute(ctx, run); err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted after %v: %w", run.PerformedSteps, err)
		}
		return err
	}

	logger.Debug("transform completed", "steps", run.PerformedSteps)
	return nil
}
