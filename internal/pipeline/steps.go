package pipeline

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/coverflat/internal/badge"
	"github.com/nao1215/coverflat/internal/coverage"
	"github.com/nao1215/coverflat/internal/model"
	"github.com/nao1215/coverflat/internal/report"
	"golang.org/x/crypto/sha3"
)

// Step names, as reported by Name and listed in Run.PerformedSteps.
const (
	StepLoad    = "load"
	StepBadge   = "badge"
	StepFlatten = "flatten"
	StepSave    = "save"
	StepSummary = "summary"
	StepHistory = "history"
)

// LoadStep parses the report and captures its root line-rate.
type LoadStep struct{}

// NewLoadStep creates a new load step.
func NewLoadStep() *LoadStep {
	return &LoadStep{}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return StepLoad
}

// Do executes the load step.
func (s *LoadStep) Do(_ context.Context, run *Run) error {
	r, err := coverage.Load(run.ReportPath)
	if err != nil {
		return err
	}
	run.Report = r
	run.LineRate = r.LineRate()
	return nil
}

// BadgeStep renders the SVG badge from the root line-rate.
type BadgeStep struct {
	// out receives the status line.
	out io.Writer
}

// NewBadgeStep creates a new badge step that reports progress to out.
func NewBadgeStep(out io.Writer) *BadgeStep {
	return &BadgeStep{out: out}
}

// Name returns the step name.
func (s *BadgeStep) Name() string {
	return StepBadge
}

// Do executes the badge step.
func (s *BadgeStep) Do(_ context.Context, run *Run) error {
	spec := badge.NewSpec(run.LineRate)
	if err := badge.WriteFile(run.BadgePath, spec); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Generated badge: %s (%s)\n", run.BadgePath, spec.Value)
	return nil
}

// FlattenStep splits every class into its own package.
type FlattenStep struct{}

// NewFlattenStep creates a new flatten step.
func NewFlattenStep() *FlattenStep {
	return &FlattenStep{}
}

// Name returns the step name.
func (s *FlattenStep) Name() string {
	return StepFlatten
}

// Do executes the flatten step.
func (s *FlattenStep) Do(_ context.Context, run *Run) error {
	classes, err := run.Report.Flatten()
	if err != nil {
		return err
	}
	run.Classes = classes
	return nil
}

// SaveStep writes the flattened report back to its source path.
type SaveStep struct {
	// out receives the status line.
	out io.Writer
}

// NewSaveStep creates a new save step that reports progress to out.
func NewSaveStep(out io.Writer) *SaveStep {
	return &SaveStep{out: out}
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return StepSave
}

// Do executes the save step.
func (s *SaveStep) Do(_ context.Context, run *Run) error {
	if err := run.Report.Save(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Successfully transformed %s: Split %d classes into separate packages.\n",
		run.ReportPath, len(run.Classes))
	return nil
}

// SummaryStep writes the Markdown coverage table.
type SummaryStep struct {
	// out receives the status line.
	out io.Writer
}

// NewSummaryStep creates a new summary step that reports progress to out.
func NewSummaryStep(out io.Writer) *SummaryStep {
	return &SummaryStep{out: out}
}

// Name returns the step name.
func (s *SummaryStep) Name() string {
	return StepSummary
}

// Do executes the summary step.
func (s *SummaryStep) Do(_ context.Context, run *Run) error {
	summary := report.NewSummary(run.Classes, run.LineRate)
	if err := report.WriteSummaryFile(run.SummaryPath, summary); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Generated markdown summary: %s\n", run.SummaryPath)
	return nil
}

// RunRecorder stores coverage runs. It is implemented by the history
// database.
type RunRecorder interface {
	SaveRun(ctx context.Context, run *model.Run) (int64, error)
}

// HistoryStep records the run in the coverage history.
type HistoryStep struct {
	recorder RunRecorder

	// out receives the status line.
	out io.Writer

	// logger for structured logging.
	logger *slog.Logger
}

// HistoryStepOption configures a HistoryStep.
type HistoryStepOption func(*HistoryStep)

// WithHistoryLogger sets a custom logger for the history step.
func WithHistoryLogger(logger *slog.Logger) HistoryStepOption {
	return func(s *HistoryStep) {
		s.logger = logger
	}
}

// NewHistoryStep creates a new history step backed by recorder.
func NewHistoryStep(recorder RunRecorder, out io.Writer, opts ...HistoryStepOption) *HistoryStep {
	s := &HistoryStep{
		recorder: recorder,
		out:      out,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *HistoryStep) Name() string {
	return StepHistory
}

// Do executes the history step.
func (s *HistoryStep) Do(ctx context.Context, run *Run) error {
	digest, err := Digest(run.Report)
	if err != nil {
		return err
	}

	record := model.NewRun(run.ReportPath, run.LineRate, run.Classes)
	record.Digest = digest

	id, err := s.recorder.SaveRun(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to record coverage history: %w", err)
	}
	record.ID = id
	run.Record = record

	s.logger.Debug("recorded coverage run",
		"id", id,
		"digest", digest,
		"classes", record.ClassCount,
	)
	fmt.Fprintf(s.out, "Recorded coverage run #%d (%.2f%%)\n", id, record.Percent())
	return nil
}

// Digest returns the hex SHA3-256 of the serialized report.
func Digest(r *coverage.Report) (string, error) {
	data, err := r.Bytes()
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// DefaultPipelineConfig holds the options of DefaultPipeline.
type DefaultPipelineConfig struct {
	// Out receives the status lines of each step.
	Out io.Writer

	// Recorder enables the history step when non-nil.
	Recorder RunRecorder
}

// DefaultPipelineOption configures DefaultPipeline.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineOutput sets the writer for status lines.
func WithPipelineOutput(out io.Writer) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Out = out
	}
}

// WithPipelineRecorder enables history recording.
func WithPipelineRecorder(recorder RunRecorder) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Recorder = recorder
	}
}

// DefaultPipeline creates the standard coverage pipeline:
// load, badge, flatten, save, summary and, with a recorder, history.
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		Out: io.Discard,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	p.AddSteps(
		NewLoadStep(),
		NewBadgeStep(cfg.Out),
		NewFlattenStep(),
		NewSaveStep(cfg.Out),
		NewSummaryStep(cfg.Out),
	)

	if cfg.Recorder != nil {
		p.AddStep(NewHistoryStep(cfg.Recorder, cfg.Out, WithHistoryLogger(p.logger)))
	}

	return p
}
