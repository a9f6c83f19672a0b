package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/storeeda/internal/model"
)

// Step produces one part of a sales report.
type Step interface {
	// Do appends the step's section to report. A section with nothing to
	// plot is not a failure: the step marks it skipped, adds a warning and
	// returns nil.
	Do(ctx context.Context, report *model.Report) error

	// Name is the report section the step fills, such as "age-quantity".
	Name() string
}

// Pipeline fills a report by running its steps in order over one dataset.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for step progress. slog.Default() is
// used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps running the remaining sections after one fails.
// The report then carries the last failure.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New returns an empty pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends step after the steps already added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends steps in the given order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute builds the report section by section. Cancellation is noticed
// between sections; the report is then flagged Cancelled and keeps the
// sections finished so far. Unless WithContinueOnError is set, the first
// failing section ends the run and its error is returned.
func (p *Pipeline) Execute(ctx context.Context, report *model.Report) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", err,
			)
			report.Cancelled = true
			report.SetError(err)
			return err
		}

		if err := p.run(ctx, step, report); err != nil && !p.continueOnError {
			return err
		}
	}
	return nil
}

// run executes one step and records its outcome in report.
func (p *Pipeline) run(ctx context.Context, step Step, report *model.Report) error {
	p.logger.Info("executing step",
		"step", step.Name(),
		"source", report.Source,
	)

	if err := step.Do(ctx, report); err != nil {
		p.logger.Error("step failed",
			"step", step.Name(),
			"source", report.Source,
			"error", err,
		)
		report.SetError(err)
		return err
	}

	p.logger.Debug("step completed",
		"step", step.Name(),
		"source", report.Source,
	)
	report.PerformedSteps = append(report.PerformedSteps, step.Name())
	return nil
}

// StepCount reports how many sections the pipeline will produce.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames lists the step names in run order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.steps))
	for _, step := range p.steps {
		names = append(names, step.Name())
	}
	return names
}
