package sagas

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Step is a single step of a saga operating on shared state T. MaxRetries is
// the total number of attempts; RetryIf, when set, limits retries to the
// errors it accepts.
type Step[T any] struct {
	Name       string
	Execute    func(ctx context.Context, state T) error
	Compensate func(ctx context.Context, state T) error
	MaxRetries int
	RetryDelay time.Duration
	RetryIf    func(error) bool
}

// State represents the current state of a saga execution
type State string

const (
	StatePending      State = "PENDING"
	StateRunning      State = "RUNNING"
	StateCompleted    State = "COMPLETED"
	StateFailed       State = "FAILED"
	StateCompensating State = "COMPENSATING"
	StateCompensated  State = "COMPENSATED"
)

// Saga runs steps in order. When a step fails, the compensations of the
// steps that already completed run in reverse order and the step's error is
// returned unchanged in the chain.
type Saga[T any] struct {
	id     string
	name   string
	steps  []Step[T]
	state  State
	logger *zap.Logger
}

// New creates a new saga instance
func New[T any](name string, logger *zap.Logger) *Saga[T] {
	return &Saga[T]{
		id:     "saga_" + uuid.NewString(),
		name:   name,
		state:  StatePending,
		logger: logger,
	}
}

// AddStep adds a step to the saga
func (s *Saga[T]) AddStep(step Step[T]) *Saga[T] {
	s.steps = append(s.steps, step)
	return s
}

// Step adds a step without compensation.
func (s *Saga[T]) Step(name string, execute func(context.Context, T) error) *Saga[T] {
	return s.AddStep(Step[T]{Name: name, Execute: execute})
}

// CompensableStep adds a step that is undone when a later step fails.
func (s *Saga[T]) CompensableStep(name string, execute, compensate func(context.Context, T) error) *Saga[T] {
	return s.AddStep(Step[T]{Name: name, Execute: execute, Compensate: compensate})
}

// Execute runs the saga against state.
func (s *Saga[T]) Execute(ctx context.Context, state T) error {
	s.state = StateRunning
	s.logger.Debug("Starting saga execution",
		zap.String("saga_id", s.id),
		zap.String("saga_name", s.name),
		zap.Int("total_steps", len(s.steps)),
	)

	for i, step := range s.steps {
		if err := s.executeStepWithRetry(ctx, step, state); err != nil {
			s.state = StateFailed
			s.logger.Warn("Saga step failed",
				zap.String("saga_id", s.id),
				zap.String("step_name", step.Name),
				zap.Error(err),
			)
			s.compensate(ctx, state, i)
			s.state = StateCompensated
			return fmt.Errorf("saga %s failed at step %s: %w", s.name, step.Name, err)
		}
	}

	s.state = StateCompleted
	s.logger.Debug("Saga completed",
		zap.String("saga_id", s.id),
		zap.String("saga_name", s.name),
	)
	return nil
}

func (s *Saga[T]) executeStepWithRetry(ctx context.Context, step Step[T], state T) error {
	attempts := step.MaxRetries
	if attempts == 0 {
		attempts = 1
	}
	delay := step.RetryDelay
	if delay == 0 {
		delay = time.Second
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if lastErr = step.Execute(ctx, state); lastErr == nil {
			return nil
		}
		if step.RetryIf != nil && !step.RetryIf(lastErr) {
			return lastErr
		}
		if attempt+1 < attempts {
			s.logger.Debug("Retrying saga step",
				zap.String("saga_id", s.id),
				zap.String("step_name", step.Name),
				zap.Int("attempt", attempt+1),
				zap.Error(lastErr),
			)
		}
	}
	return lastErr
}

// compensate undoes the first n steps in reverse order. Compensation runs on
// a context detached from cancellation so an aborted request still cleans up.
func (s *Saga[T]) compensate(ctx context.Context, state T, n int) {
	s.state = StateCompensating
	cctx := context.WithoutCancel(ctx)

	for i := n - 1; i >= 0; i-- {
		step := s.steps[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(cctx, state); err != nil {
			s.logger.Error("Compensation failed",
				zap.String("saga_id", s.id),
				zap.String("step_name", step.Name),
				zap.Error(err),
			)
		}
	}
}

// GetState returns the current state of the saga
func (s *Saga[T]) GetState() State {
	return s.state
}
