package application

import (
	"context"

	"github.com/draftea/order-saga/order-service/domain"
	"github.com/draftea/order-saga/shared/events"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// CompensationRetrier repeats a failed compensating call
type CompensationRetrier interface {
	Retry(ctx context.Context, failure *saga.CompensationFailure, req *saga.Request) (*saga.Outcome, error)
}

// RetryCompensation reconciles a compensation that failed during a saga run.
// Returning an error leaves the failure queued for another delivery.
type RetryCompensation struct {
	orderRepository domain.OrderRepository
	retrier         CompensationRetrier
	eventPublisher  events.Publisher
	logger          zerolog.Logger
}

// NewRetryCompensation creates a new RetryCompensation use case
func NewRetryCompensation(
	orderRepository domain.OrderRepository,
	retrier CompensationRetrier,
	eventPublisher events.Publisher,
	logger zerolog.Logger,
) *RetryCompensation {
	return &RetryCompensation{
		orderRepository: orderRepository,
		retrier:         retrier,
		eventPublisher:  eventPublisher,
		logger:          logger,
	}
}

// Execute retries the compensating call once
func (uc *RetryCompensation) Execute(ctx context.Context, failure *saga.CompensationFailure) error {
	logger := uc.logger.With().
		Str("transaction_id", failure.TransactionID.String()).
		Str("step", failure.Step).
		Logger()

	order, err := uc.orderRepository.FindByID(ctx, failure.TransactionID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			logger.Warn().Msg("order of failed compensation no longer exists, dropping")
			return nil
		}
		return errors.Wrap(err, "failed to find order")
	}

	outcome, err := uc.retrier.Retry(ctx, failure, order.SagaRequest())
	if err != nil {
		if errors.Is(err, saga.ErrNotCompensatable) {
			logger.Warn().Err(err).Msg("failed compensation cannot be retried, dropping")
			return nil
		}
		return errors.Wrap(err, "failed to retry compensation")
	}

	if !outcome.Success {
		return errors.Errorf("compensation of %s still failing: %s", failure.Step, outcome.Message)
	}

	logger.Info().Str("message", outcome.Message).Msg("compensation recovered")

	recovered := events.NewEvent(failure.TransactionID, events.SagaCompensationRecoveredEvent, failure).
		WithCorrelationID(failure.TransactionID).
		WithMetadata("saga", failure.Saga).
		WithMetadata("step", failure.Step)
	if err := uc.eventPublisher.Publish(ctx, recovered); err != nil {
		logger.Warn().Err(err).Msg("failed to publish compensation recovered event")
	}

	return nil
}
