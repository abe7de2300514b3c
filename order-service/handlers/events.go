package handlers

import (
	"context"

	"github.com/draftea/order-saga/shared/events"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// RetryCompensationUseCase reconciles a failed compensation
type RetryCompensationUseCase interface {
	Execute(ctx context.Context, failure *saga.CompensationFailure) error
}

// OrderEventHandlers handles the saga events consumed by the order service
type OrderEventHandlers struct {
	retryCompensation RetryCompensationUseCase
	logger            zerolog.Logger
}

// NewOrderEventHandlers creates new order event handlers
func NewOrderEventHandlers(retryCompensation RetryCompensationUseCase, logger zerolog.Logger) *OrderEventHandlers {
	return &OrderEventHandlers{
		retryCompensation: retryCompensation,
		logger:            logger,
	}
}

// Handle implements the events.EventHandler interface
func (h *OrderEventHandlers) Handle(ctx context.Context, event *events.Event) error {
	switch event.EventType {
	case events.SagaCompensationFailedEvent:
		return h.HandleCompensationFailed(ctx, event)
	default:
		return nil
	}
}

// HandlerID returns the unique identifier for this event handler
func (h *OrderEventHandlers) HandlerID() string {
	return "order-service-event-handler"
}

// HandleCompensationFailed retries the compensating call carried by the event
func (h *OrderEventHandlers) HandleCompensationFailed(ctx context.Context, event *events.Event) error {
	var failure saga.CompensationFailure
	if err := event.UnmarshalPayload(&failure); err != nil {
		// a malformed failure will never succeed, so do not redeliver it
		h.logger.Error().Err(err).Str("event_id", event.ID.String()).Msg("invalid compensation failure event")
		return nil
	}

	if failure.TransactionID == "" {
		failure.TransactionID = event.AggregateID
	}

	if err := h.retryCompensation.Execute(ctx, &failure); err != nil {
		return errors.Wrapf(err, "compensation of %s for %s", failure.Step, failure.TransactionID)
	}
	return nil
}
