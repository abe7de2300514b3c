package application

import (
	"context"

	"github.com/draftea/order-saga/participants-service/domain"
	"github.com/draftea/order-saga/shared/models"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ShipOrder creates the shipment. It has no compensation: once an order is
// shipped the saga is committed.
type ShipOrder struct {
	repository domain.ReservationRepository
	logger     zerolog.Logger
}

// NewShipOrder creates a new ShipOrder use case
func NewShipOrder(repository domain.ReservationRepository, logger zerolog.Logger) *ShipOrder {
	return &ShipOrder{
		repository: repository,
		logger:     logger,
	}
}

func (uc *ShipOrder) Execute(ctx context.Context, req *domain.TransactionRequest) (*saga.Outcome, error) {
	logger := uc.logger.With().Str("transaction_id", req.TransactionID.String()).Logger()

	existing, err := uc.repository.Find(ctx, domain.KindShipping, req.TransactionID)
	if err != nil && errors.Cause(err) != domain.ErrReservationNotFound {
		return nil, errors.Wrap(err, "failed to ship order")
	}
	if existing != nil {
		logger.Info().Str("tracking_number", existing.TrackingNumber).Msg("order already shipped")
		return saga.Succeeded("Order already shipped"), nil
	}

	shipment := domain.NewReservation(domain.KindShipping, req, domain.StatusShipped)
	shipment.TrackingNumber = "TRACK-" + models.GenerateUUID().Short()
	if err := uc.repository.Save(ctx, shipment); err != nil {
		return nil, errors.Wrap(err, "failed to ship order")
	}

	logger.Info().Str("tracking_number", shipment.TrackingNumber).Msg("order shipped")
	return succeededWith("Order shipped successfully", shipment), nil
}
