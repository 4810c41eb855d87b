package signup

import (
	"context"
	"log/slog"
	"time"

	"github.com/DavidHJones36/roguetwo-api/internal/platform/logger"
)

// Step is one forward action of a saga and the action that undoes it.
type Step struct {
	Name string
	Do   func(ctx context.Context) error
	// Compensate undoes Do. It runs only if Do succeeded and a later step
	// failed. Nil means there is nothing to undo.
	Compensate func(ctx context.Context) error
}

// CompensationFailure records a rollback that did not succeed.
type CompensationFailure struct {
	// FailedStep is the forward step whose failure started the rollback.
	FailedStep string
	// Step is the completed step whose Compensate failed.
	Step string
	Err  error
}

// Saga runs steps in order and, when one fails, compensates the steps that
// already completed in reverse order.
type Saga struct {
	name    string
	steps   []Step
	timeout time.Duration
	logger  *slog.Logger

	// OnCompensationFailure, when set, is called for every failed
	// compensation after it has been logged.
	OnCompensationFailure func(ctx context.Context, failure CompensationFailure)
}

// NewSaga creates a saga. compensationTimeout bounds the whole rollback,
// which runs even if ctx has already been cancelled.
func NewSaga(name string, compensationTimeout time.Duration, logger *slog.Logger, steps ...Step) *Saga {
	if logger == nil {
		logger = slog.Default()
	}
	return &Saga{
		name:    name,
		steps:   steps,
		timeout: compensationTimeout,
		logger:  logger,
	}
}

// Run executes the saga. It returns the error of the first failed step
// unchanged; compensation failures never replace it.
func (s *Saga) Run(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("saga", s.name))

	completed := make([]Step, 0, len(s.steps))
	for _, step := range s.steps {
		if err := step.Do(ctx); err != nil {
			log.Warn("saga step failed, compensating",
				slog.String("step", step.Name),
				slog.Int("completed_steps", len(completed)),
				slog.String("error", err.Error()))
			s.compensate(ctx, log, step.Name, completed)
			return err
		}
		completed = append(completed, step)
	}

	log.Debug("saga completed", slog.Int("steps", len(completed)))
	return nil
}

func (s *Saga) compensate(ctx context.Context, log *slog.Logger, failedStep string, completed []Step) {
	cctx := context.WithoutCancel(ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(cctx, s.timeout)
		defer cancel()
	}

	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Compensate == nil {
			continue
		}

		if err := step.Compensate(cctx); err != nil {
			log.Error("compensation failed",
				slog.String("failed_step", failedStep),
				slog.String("step", step.Name),
				slog.String("error", err.Error()))
			if s.OnCompensationFailure != nil {
				s.OnCompensationFailure(cctx, CompensationFailure{
					FailedStep: failedStep,
					Step:       step.Name,
					Err:        err,
				})
			}
			continue
		}

		log.Info("compensated", slog.String("step", step.Name))
	}
}
