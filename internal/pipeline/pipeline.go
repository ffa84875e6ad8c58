package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// Step is one stage of a coverage run. Each step reads what earlier
// steps stored in the Run and adds its own results.
type Step interface {
	// Do executes the step. The context is checked by the pipeline
	// between steps only.
	Do(ctx context.Context, run *Run) error

	// Name identifies the step in logs and Run.PerformedSteps.
	Name() string
}

// Pipeline runs steps in the order they were added.
type Pipeline struct {
	steps []Step

	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several steps, keeping their order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps against run and stops at the first failing
// step, returning its error. A cancelled context stops the run before the
// next step starts. In both cases run.Err holds the error.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	started := time.Now()
	p.logger.Debug("starting pipeline",
		"report", run.ReportPath,
		"steps", p.StepNames(),
	)

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Debug("pipeline cancelled",
				"step", step.Name(),
				"reason", err,
			)
			run.Err = err
			return err
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"report", run.ReportPath,
		)

		stepStarted := time.Now()
		if err := step.Do(ctx, run); err != nil {
			// The caller reports the error itself; this only adds the step.
			p.logger.Debug("step failed",
				"step", step.Name(),
				"report", run.ReportPath,
				"error", err,
			)
			run.Err = err
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"report", run.ReportPath,
			"duration", time.Since(stepStarted),
		)
		run.PerformedSteps = append(run.PerformedSteps, step.Name())
	}

	p.logger.Debug("pipeline finished",
		"report", run.ReportPath,
		"steps", len(run.PerformedSteps),
		"duration", time.Since(started),
	)
	return nil
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
