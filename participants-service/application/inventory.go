package application

import (
	"context"

	"github.com/draftea/order-saga/participants-service/domain"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ReserveInventory sets stock aside for the order
type ReserveInventory struct {
	repository domain.ReservationRepository
	rules      domain.Rules
	logger     zerolog.Logger
}

// NewReserveInventory creates a new ReserveInventory use case
func NewReserveInventory(repository domain.ReservationRepository, rules domain.Rules, logger zerolog.Logger) *ReserveInventory {
	return &ReserveInventory{
		repository: repository,
		rules:      rules,
		logger:     logger,
	}
}

func (uc *ReserveInventory) Execute(ctx context.Context, req *domain.TransactionRequest) (*saga.Outcome, error) {
	logger := uc.logger.With().Str("transaction_id", req.TransactionID.String()).Logger()

	if req.Data.Quantity > uc.rules.MaxInventoryQuantity {
		logger.Warn().Int("quantity", req.Data.Quantity).Msg("insufficient inventory")
		return saga.Failed("Insufficient inventory"), nil
	}

	existing, err := uc.repository.Find(ctx, domain.KindInventory, req.TransactionID)
	if err != nil && errors.Cause(err) != domain.ErrReservationNotFound {
		return nil, errors.Wrap(err, "error reserving inventory")
	}
	if existing != nil && existing.Status == domain.StatusReleased {
		logger.Warn().Msg("inventory was released, not reserving again")
		return saga.Failed("Inventory already released"), nil
	}
	if existing != nil {
		logger.Info().Msg("inventory already reserved")
		return saga.Succeeded("Inventory already reserved"), nil
	}

	reservation := domain.NewReservation(domain.KindInventory, req, domain.StatusReserved)
	if err := uc.repository.Save(ctx, reservation); err != nil {
		return nil, errors.Wrap(err, "error reserving inventory")
	}

	logger.Info().Str("product_id", reservation.ProductID).Int("quantity", reservation.Quantity).Msg("inventory reserved")
	return succeededWith("Inventory reserved successfully", reservation), nil
}

// ReleaseInventory compensates an inventory reservation
type ReleaseInventory struct {
	repository domain.ReservationRepository
	logger     zerolog.Logger
}

// NewReleaseInventory creates a new ReleaseInventory use case
func NewReleaseInventory(repository domain.ReservationRepository, logger zerolog.Logger) *ReleaseInventory {
	return &ReleaseInventory{
		repository: repository,
		logger:     logger,
	}
}

func (uc *ReleaseInventory) Execute(ctx context.Context, req *domain.TransactionRequest) (*saga.Outcome, error) {
	logger := uc.logger.With().Str("transaction_id", req.TransactionID.String()).Logger()

	reservation, err := uc.repository.Find(ctx, domain.KindInventory, req.TransactionID)
	if errors.Cause(err) == domain.ErrReservationNotFound {
		logger.Warn().Msg("no inventory to release")
		return saga.Failed("Error releasing inventory: Reservation not found"), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "error releasing inventory")
	}

	reservation.Transition(domain.StatusReleased)
	if err := uc.repository.Save(ctx, reservation); err != nil {
		return nil, errors.Wrap(err, "error releasing inventory")
	}

	logger.Info().Msg("inventory released")
	return succeededWith("Inventory released successfully", reservation), nil
}
