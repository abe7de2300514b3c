package saga

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/draftea/order-saga/shared/telemetry"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RetryPolicy controls the execution of retriable steps
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	// FailOnExhaustion turns an exhausted retriable step into a step failure.
	// When false the step is recorded as completed after the last attempt.
	FailOnExhaustion bool
}

// DefaultRetryPolicy returns three attempts one second apart
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Delay:       time.Second,
	}
}

func (p RetryPolicy) attempts() uint {
	if p.MaxAttempts < 1 {
		return 1
	}
	return uint(p.MaxAttempts)
}

// Executor runs a single step according to its type
type Executor struct {
	retry       RetryPolicy
	callTimeout time.Duration
	logger      zerolog.Logger
}

// NewExecutor creates a step executor
func NewExecutor(retry RetryPolicy, callTimeout time.Duration, logger zerolog.Logger) *Executor {
	return &Executor{
		retry:       retry,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// Execute runs the forward operation of the step. It never returns a nil outcome.
func (e *Executor) Execute(ctx context.Context, step Step, req *Request) *Outcome {
	ctx, span := telemetry.StartSpan(ctx, "saga.step",
		trace.WithAttributes(
			attribute.String("step", step.Name),
			attribute.String("step_type", step.Type.String()),
			attribute.String("transaction_id", req.TransactionID.String()),
		),
	)
	defer span.End()

	var outcome *Outcome
	switch step.Type {
	case Retriable:
		outcome = e.executeWithRetry(ctx, step, req)
	default:
		outcome = invoke(ctx, step.Participant, step.Forward, req, e.callTimeout)
	}

	result := "success"
	if !outcome.Success {
		result = "failure"
		span.RecordError(errors.New(outcome.Message))
	}

	telemetry.RecordCounter(ctx, "saga_steps_total", "Total saga steps executed", 1,
		attribute.String("step", step.Name),
		attribute.String("step_type", step.Type.String()),
		attribute.String("result", result),
	)

	return outcome
}

func (e *Executor) executeWithRetry(ctx context.Context, step Step, req *Request) *Outcome {
	var (
		last     *Outcome
		attempts int
	)

	logger := e.logger.With().
		Str("step", step.Name).
		Str("transaction_id", req.TransactionID.String()).
		Logger()

	_, err := backoff.Retry(ctx,
		func() (*Outcome, error) {
			attempts++
			last = invoke(ctx, step.Participant, step.Forward, req, e.callTimeout)
			if !last.Success {
				return nil, errors.New(last.Message)
			}
			return last, nil
		},
		backoff.WithBackOff(backoff.NewConstantBackOff(e.retry.Delay)),
		backoff.WithMaxTries(e.retry.attempts()),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn().
				Err(err).
				Int("attempt", attempts).
				Dur("retry_in", next).
				Msg("retriable step failed, retrying")
		}),
	)
	if err == nil {
		return last
	}

	if last == nil || ctx.Err() != nil {
		return Failed(err.Error())
	}

	if e.retry.FailOnExhaustion {
		logger.Error().
			Int("attempts", attempts).
			Str("reason", last.Message).
			Msg("retriable step exhausted its attempts")
		return last
	}

	logger.Warn().
		Int("attempts", attempts).
		Str("reason", last.Message).
		Msg("retriable step exhausted its attempts, recording it as completed")

	return &Outcome{
		Success: true,
		Message: fmt.Sprintf("retries exhausted after %d attempts: %s", attempts, last.Message),
		Data:    last.Data,
	}
}

// invoke calls the participant and folds errors, panics and empty results
// into a failed outcome.
func invoke(ctx context.Context, participant Participant, operation string, req *Request, timeout time.Duration) (outcome *Outcome) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			outcome = Failed(fmt.Sprintf("participant panicked: %v", r))
		}
	}()

	result, err := participant.Invoke(ctx, operation, req)
	if err != nil {
		return Failed(err.Error())
	}

	if result == nil {
		return Failed("participant returned no outcome")
	}

	return result
}
