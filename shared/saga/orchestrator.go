package saga

import (
	"context"
	"time"

	"github.com/draftea/order-saga/shared/events"
	"github.com/draftea/order-saga/shared/telemetry"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type orchestratorOptions struct {
	retry       RetryPolicy
	callTimeout time.Duration
	logger      zerolog.Logger
	publisher   events.Publisher
	handler     CompensationFailureHandler
}

type Option func(*orchestratorOptions)

func WithRetryPolicy(policy RetryPolicy) Option {
	return func(o *orchestratorOptions) {
		o.retry = policy
	}
}

// WithCallTimeout bounds every participant call, forward and compensating
func WithCallTimeout(timeout time.Duration) Option {
	return func(o *orchestratorOptions) {
		o.callTimeout = timeout
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *orchestratorOptions) {
		o.logger = logger
	}
}

// WithPublisher publishes saga lifecycle events. Publishing is best effort.
func WithPublisher(publisher events.Publisher) Option {
	return func(o *orchestratorOptions) {
		o.publisher = publisher
	}
}

func WithCompensationFailureHandler(handler CompensationFailureHandler) Option {
	return func(o *orchestratorOptions) {
		o.handler = handler
	}
}

// Orchestrator drives saga runs through the catalog. A single orchestrator
// serves concurrent runs; all per-run data lives in the RunState.
type Orchestrator struct {
	catalog     *Catalog
	store       RunStore
	executor    *Executor
	compensator *Compensator
	publisher   events.Publisher
	logger      zerolog.Logger
}

// NewOrchestrator creates an orchestrator for the catalog
func NewOrchestrator(catalog *Catalog, store RunStore, opts ...Option) *Orchestrator {
	options := &orchestratorOptions{
		retry:  DefaultRetryPolicy(),
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger.With().Str("saga", catalog.Name()).Logger()

	return &Orchestrator{
		catalog:     catalog,
		store:       store,
		executor:    NewExecutor(options.retry, options.callTimeout, logger),
		compensator: NewCompensator(catalog, options.handler, options.callTimeout, logger),
		publisher:   options.publisher,
		logger:      logger,
	}
}

// Catalog returns the catalog driven by this orchestrator
func (o *Orchestrator) Catalog() *Catalog {
	return o.catalog
}

// Execute starts a new run for the request and blocks until it reaches a
// terminal status. Step failures are reported through the returned state; an
// error is returned only when the terminal state could not be persisted.
func (o *Orchestrator) Execute(ctx context.Context, req *Request) (*RunState, error) {
	return o.run(ctx, NewRunState(req.TransactionID), req)
}

// Resume continues a run from the first step that is not yet completed. A
// run stored as COMPENSATING finishes its compensation and fails instead of
// moving forward. Terminal runs are returned unchanged.
func (o *Orchestrator) Resume(ctx context.Context, state *RunState, req *Request) (*RunState, error) {
	if state.Status.IsTerminal() {
		return state, nil
	}
	return o.run(ctx, state.Clone(), req)
}

func (o *Orchestrator) run(ctx context.Context, state *RunState, req *Request) (*RunState, error) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "saga.run",
		trace.WithAttributes(
			attribute.String("saga", o.catalog.Name()),
			attribute.String("transaction_id", state.TransactionID.String()),
			attribute.Int("resumed_steps", len(state.CompletedSteps)),
		),
	)
	defer span.End()

	defer func() {
		telemetry.RecordCounter(ctx, "saga_runs_total", "Total saga runs", 1,
			attribute.String("saga", o.catalog.Name()),
			attribute.String("status", state.Status.String()),
		)
		telemetry.RecordHistogram(ctx, "saga_run_duration_seconds", "Saga run duration", time.Since(start).Seconds(),
			attribute.String("saga", o.catalog.Name()),
			attribute.String("status", state.Status.String()),
		)
	}()

	logger := o.logger.With().Str("transaction_id", state.TransactionID.String()).Logger()
	logger.Info().Strs("completed_steps", state.CompletedSteps).Msg("saga started")
	o.publish(ctx, events.SagaStartedEvent, state)

	if err := o.store.SaveRun(ctx, state); err != nil {
		span.RecordError(err)
		if isRunConflict(err) {
			logger.Warn().Msg("saga run is owned by another orchestration")
			return state, errors.Wrap(err, "failed to claim saga run")
		}
		return o.abort(ctx, logger, state, req, UnexpectedError(err))
	}

	if state.Status == StatusCompensating {
		logger.Warn().Str("reason", state.FailureReason).Msg("finishing interrupted compensation")
		return o.abort(ctx, logger, state, req, state.FailureReason)
	}

	for _, step := range o.catalog.steps {
		if state.HasCompleted(step.Name) {
			continue
		}

		outcome := o.executor.Execute(ctx, step, req)
		if !outcome.Success {
			logger.Error().
				Str("step", step.Name).
				Str("reason", outcome.Message).
				Msg("saga step failed")
			return o.abort(ctx, logger, state, req, FailedAtStep(step.Name))
		}

		state.Complete(step)
		logger.Info().Str("step", step.Name).Str("status", state.Status.String()).Msg("saga step completed")
		o.publish(ctx, events.SagaStepCompletedEvent, state, step.Name)

		if err := o.store.SaveRun(ctx, state); err != nil {
			span.RecordError(err)
			if isRunConflict(err) {
				logger.Warn().Str("step", step.Name).Msg("saga run taken over by another orchestration")
				return state, errors.Wrap(err, "lost ownership of saga run")
			}
			if o.catalog.Committed(state.CompletedSteps) {
				// the pivot already succeeded, keep moving forward
				logger.Error().Err(err).Str("step", step.Name).Msg("failed to persist committed saga progress")
				continue
			}
			return o.abort(ctx, logger, state, req, UnexpectedError(err))
		}
	}

	state.Finish()
	logger.Info().Msg("saga completed")
	o.publish(ctx, events.SagaCompletedEvent, state)

	if err := o.store.SaveRun(context.WithoutCancel(ctx), state); err != nil {
		span.RecordError(err)
		return state, errors.Wrap(err, "failed to persist completed saga run")
	}

	return state, nil
}

// abort compensates the completed steps unless the saga is committed and
// marks the run as failed.
func (o *Orchestrator) abort(ctx context.Context, logger zerolog.Logger, state *RunState, req *Request, reason string) (*RunState, error) {
	ctx = context.WithoutCancel(ctx)

	if o.catalog.Committed(state.CompletedSteps) {
		logger.Warn().Msg("saga is past its pivot, skipping compensation")
	} else if len(state.CompletedSteps) > 0 {
		// a crash from here on resumes into compensation, never forward
		state.BeginCompensation(reason)
		if err := o.store.SaveRun(ctx, state); err != nil {
			if isRunConflict(err) {
				logger.Warn().Msg("saga run taken over by another orchestration")
				return state, errors.Wrap(err, "lost ownership of saga run")
			}
			logger.Error().Err(err).Msg("failed to persist compensating saga run")
		}

		completed := make([]string, len(state.CompletedSteps))
		copy(completed, state.CompletedSteps)

		report := o.compensator.Compensate(ctx, completed, req)
		if report.HasFailures() {
			logger.Error().Str("failures", report.Error()).Msg("saga compensated with failures")
		}
		o.publish(ctx, events.SagaCompensatedEvent, state, report.Compensated...)
	}

	state.Fail(reason)
	logger.Error().Str("reason", reason).Msg("saga failed")
	o.publish(ctx, events.SagaFailedEvent, state)

	if err := o.store.SaveRun(ctx, state); err != nil {
		return state, errors.Wrap(err, "failed to persist failed saga run")
	}

	return state, nil
}

func isRunConflict(err error) bool {
	return errors.Is(err, ErrRunConflict)
}

func (o *Orchestrator) publish(ctx context.Context, eventType string, state *RunState, steps ...string) {
	if o.publisher == nil {
		return
	}

	data := map[string]interface{}{
		"saga":            o.catalog.Name(),
		"transaction_id":  state.TransactionID.String(),
		"status":          state.Status.String(),
		"completed_steps": append([]string{}, state.CompletedSteps...),
	}
	if state.FailureReason != "" {
		data["failure_reason"] = state.FailureReason
	}
	if len(steps) > 0 {
		data["steps"] = steps
	}

	event := events.NewEvent(state.TransactionID, eventType, data).
		WithCorrelationID(state.TransactionID).
		WithMetadata("saga", o.catalog.Name())

	if err := o.publisher.Publish(ctx, event); err != nil {
		o.logger.Warn().
			Err(err).
			Str("event_type", eventType).
			Str("transaction_id", state.TransactionID.String()).
			Msg("failed to publish saga event")
	}
}
