package application

import (
	"context"

	"github.com/draftea/order-saga/participants-service/domain"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ReservePayment holds the order amount for the customer
type ReservePayment struct {
	repository domain.ReservationRepository
	rules      domain.Rules
	logger     zerolog.Logger
}

// NewReservePayment creates a new ReservePayment use case
func NewReservePayment(repository domain.ReservationRepository, rules domain.Rules, logger zerolog.Logger) *ReservePayment {
	return &ReservePayment{
		repository: repository,
		rules:      rules,
		logger:     logger,
	}
}

// Execute reserves the payment. The amount limit is checked before the
// idempotency lookup, so an over-limit retry keeps failing.
func (uc *ReservePayment) Execute(ctx context.Context, req *domain.TransactionRequest) (*saga.Outcome, error) {
	logger := uc.logger.With().Str("transaction_id", req.TransactionID.String()).Logger()

	if req.Data.Amount > uc.rules.MaxPaymentAmount {
		logger.Warn().Int64("amount", req.Data.Amount).Msg("payment amount exceeds limit")
		return saga.Failed("Payment amount exceeds limit"), nil
	}

	existing, err := uc.repository.Find(ctx, domain.KindPayment, req.TransactionID)
	if err != nil && errors.Cause(err) != domain.ErrReservationNotFound {
		return nil, errors.Wrap(err, "error reserving payment")
	}
	if existing != nil && existing.Status == domain.StatusRefunded {
		logger.Warn().Msg("payment was refunded, not reserving again")
		return saga.Failed("Payment already refunded"), nil
	}
	if existing != nil {
		logger.Info().Msg("payment already reserved")
		return saga.Succeeded("Payment already reserved"), nil
	}

	payment := domain.NewReservation(domain.KindPayment, req, domain.StatusReserved)
	if err := uc.repository.Save(ctx, payment); err != nil {
		return nil, errors.Wrap(err, "error reserving payment")
	}

	logger.Info().Str("payment_id", payment.ID.String()).Msg("payment reserved")
	return succeededWith("Payment reserved successfully", payment), nil
}

// RefundPayment compensates a reserved payment
type RefundPayment struct {
	repository domain.ReservationRepository
	logger     zerolog.Logger
}

// NewRefundPayment creates a new RefundPayment use case
func NewRefundPayment(repository domain.ReservationRepository, logger zerolog.Logger) *RefundPayment {
	return &RefundPayment{
		repository: repository,
		logger:     logger,
	}
}

func (uc *RefundPayment) Execute(ctx context.Context, req *domain.TransactionRequest) (*saga.Outcome, error) {
	logger := uc.logger.With().Str("transaction_id", req.TransactionID.String()).Logger()

	payment, err := uc.repository.Find(ctx, domain.KindPayment, req.TransactionID)
	if errors.Cause(err) == domain.ErrReservationNotFound {
		logger.Warn().Msg("no payment to refund")
		return saga.Failed("Error refunding payment: Payment not found"), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "error refunding payment")
	}

	payment.Transition(domain.StatusRefunded)
	if err := uc.repository.Save(ctx, payment); err != nil {
		return nil, errors.Wrap(err, "error refunding payment")
	}

	logger.Info().Str("payment_id", payment.ID.String()).Msg("payment refunded")
	return succeededWith("Payment refunded successfully", payment), nil
}
