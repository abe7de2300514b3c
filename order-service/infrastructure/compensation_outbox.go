package infrastructure

import (
	"context"

	"github.com/draftea/order-saga/shared/events"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var _ saga.CompensationFailureHandler = (*CompensationOutbox)(nil)

// CompensationOutbox records failed compensations in the event store and
// publishes them for the reconciliation worker.
type CompensationOutbox struct {
	store     events.EventStore
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewCompensationOutbox creates a new CompensationOutbox
func NewCompensationOutbox(store events.EventStore, publisher events.Publisher, logger zerolog.Logger) *CompensationOutbox {
	return &CompensationOutbox{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

func (o *CompensationOutbox) HandleCompensationFailure(ctx context.Context, failure *saga.CompensationFailure) error {
	event := events.NewEvent(failure.TransactionID, events.SagaCompensationFailedEvent, failure).
		WithCorrelationID(failure.TransactionID).
		WithMetadata("saga", failure.Saga).
		WithMetadata("step", failure.Step)

	if err := o.store.SaveEvents(ctx, failure.TransactionID, []*events.Event{event}, events.AnyVersion); err != nil {
		return errors.Wrap(err, "failed to store compensation failure")
	}

	if err := o.publisher.Publish(ctx, event); err != nil {
		// stored events can be replayed from the event store
		o.logger.Error().
			Err(err).
			Str("transaction_id", failure.TransactionID.String()).
			Str("step", failure.Step).
			Msg("failed to publish compensation failure")
		return errors.Wrap(err, "failed to publish compensation failure")
	}

	o.logger.Info().
		Str("transaction_id", failure.TransactionID.String()).
		Str("step", failure.Step).
		Msg("compensation failure queued for reconciliation")
	return nil
}
