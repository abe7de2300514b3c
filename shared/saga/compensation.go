package saga

import (
	"context"
	"strings"
	"time"

	"github.com/draftea/order-saga/shared/models"
	"github.com/draftea/order-saga/shared/telemetry"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotCompensatable is returned when retrying a step that has no
// compensating operation
var ErrNotCompensatable = errors.New("step is not compensatable")

// CompensationFailure describes a compensating call that did not succeed
type CompensationFailure struct {
	Saga          string    `json:"saga"`
	TransactionID models.ID `json:"transaction_id"`
	Step          string    `json:"step"`
	Operation     string    `json:"operation"`
	Reason        string    `json:"reason"`
	FailedAt      time.Time `json:"failed_at"`
}

// CompensationFailureHandler receives compensations that need out of band
// reconciliation.
type CompensationFailureHandler interface {
	HandleCompensationFailure(ctx context.Context, failure *CompensationFailure) error
}

// CompensationFailureHandlerFunc adapts a function to CompensationFailureHandler
type CompensationFailureHandlerFunc func(ctx context.Context, failure *CompensationFailure) error

func (f CompensationFailureHandlerFunc) HandleCompensationFailure(ctx context.Context, failure *CompensationFailure) error {
	return f(ctx, failure)
}

// CompensationReport summarizes a compensation pass
type CompensationReport struct {
	Compensated []string
	Skipped     []string
	Failed      []*CompensationFailure
}

// HasFailures reports whether any compensating call failed
func (r *CompensationReport) HasFailures() bool {
	return len(r.Failed) > 0
}

// Error lists the failed compensations, or returns an empty string
func (r *CompensationReport) Error() string {
	if !r.HasFailures() {
		return ""
	}
	parts := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		parts[i] = f.Step + ": " + f.Reason
	}
	return "compensation failed for " + strings.Join(parts, "; ")
}

// Compensator undoes completed compensatable steps in reverse order
type Compensator struct {
	catalog     *Catalog
	handler     CompensationFailureHandler
	callTimeout time.Duration
	logger      zerolog.Logger
}

// NewCompensator creates a compensator for the catalog. handler may be nil.
func NewCompensator(catalog *Catalog, handler CompensationFailureHandler, callTimeout time.Duration, logger zerolog.Logger) *Compensator {
	return &Compensator{
		catalog:     catalog,
		handler:     handler,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// Compensate walks the completed steps backwards and calls the compensating
// operation of every compensatable one. A failed call does not stop the pass.
func (c *Compensator) Compensate(ctx context.Context, completed []string, req *Request) *CompensationReport {
	ctx, span := telemetry.StartSpan(ctx, "saga.compensate",
		trace.WithAttributes(
			attribute.String("saga", c.catalog.Name()),
			attribute.String("transaction_id", req.TransactionID.String()),
			attribute.Int("completed_steps", len(completed)),
		),
	)
	defer span.End()

	report := &CompensationReport{}
	logger := c.logger.With().
		Str("saga", c.catalog.Name()).
		Str("transaction_id", req.TransactionID.String()).
		Logger()

	for i := len(completed) - 1; i >= 0; i-- {
		step, ok := c.catalog.Step(completed[i])
		if !ok {
			logger.Warn().Str("step", completed[i]).Msg("completed step is not part of the catalog, skipping")
			report.Skipped = append(report.Skipped, completed[i])
			continue
		}

		if !step.CanCompensate() {
			report.Skipped = append(report.Skipped, step.Name)
			continue
		}

		outcome := invoke(ctx, step.Participant, step.Compensation, req, c.callTimeout)
		if outcome.Success {
			logger.Info().Str("step", step.Name).Msg("step compensated")
			report.Compensated = append(report.Compensated, step.Name)
			c.record(ctx, step, "success")
			continue
		}

		logger.Error().
			Str("step", step.Name).
			Str("operation", step.Compensation).
			Str("reason", outcome.Message).
			Msg("compensation failed")
		c.record(ctx, step, "failure")

		failure := &CompensationFailure{
			Saga:          c.catalog.Name(),
			TransactionID: req.TransactionID,
			Step:          step.Name,
			Operation:     step.Compensation,
			Reason:        outcome.Message,
			FailedAt:      time.Now().UTC(),
		}
		report.Failed = append(report.Failed, failure)

		if c.handler != nil {
			if err := c.handler.HandleCompensationFailure(ctx, failure); err != nil {
				logger.Error().Err(err).Str("step", step.Name).Msg("failed to hand off compensation failure")
			}
		}
	}

	return report
}

// Retry calls the compensating operation of a previously failed compensation
// once. The failure handler is not involved.
func (c *Compensator) Retry(ctx context.Context, failure *CompensationFailure, req *Request) (*Outcome, error) {
	step, ok := c.catalog.Step(failure.Step)
	if !ok {
		return nil, errors.Wrapf(ErrNotCompensatable, "unknown step %q", failure.Step)
	}
	if !step.CanCompensate() {
		return nil, errors.Wrapf(ErrNotCompensatable, "step %q", step.Name)
	}

	outcome := invoke(ctx, step.Participant, step.Compensation, req, c.callTimeout)
	result := "retry_failure"
	if outcome.Success {
		result = "retry_success"
	}
	c.record(ctx, step, result)

	return outcome, nil
}

func (c *Compensator) record(ctx context.Context, step Step, result string) {
	telemetry.RecordCounter(ctx, "saga_compensations_total", "Total compensating calls", 1,
		attribute.String("saga", c.catalog.Name()),
		attribute.String("step", step.Name),
		attribute.String("result", result),
	)
}
