package application

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/draftea/order-saga/participants-service/domain"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// SendNotification tells the customer the order went through. The service
// fails now and then on early attempts so the orchestrator's retries get
// exercised.
type SendNotification struct {
	repository domain.ReservationRepository
	rules      domain.Rules
	chance     func() float64
	logger     zerolog.Logger
}

// NewSendNotification creates a new SendNotification use case. chance
// returns a value in [0, 1); nil uses math/rand.
func NewSendNotification(
	repository domain.ReservationRepository,
	rules domain.Rules,
	chance func() float64,
	logger zerolog.Logger,
) *SendNotification {
	if chance == nil {
		chance = rand.Float64
	}

	return &SendNotification{
		repository: repository,
		rules:      rules,
		chance:     chance,
		logger:     logger,
	}
}

func (uc *SendNotification) Execute(ctx context.Context, req *domain.TransactionRequest) (*saga.Outcome, error) {
	logger := uc.logger.With().Str("transaction_id", req.TransactionID.String()).Logger()

	notification, err := uc.repository.Find(ctx, domain.KindNotification, req.TransactionID)
	if err != nil && errors.Cause(err) != domain.ErrReservationNotFound {
		return nil, errors.Wrap(err, "error sending notification")
	}
	if notification != nil && notification.Status == domain.StatusSent {
		logger.Info().Msg("notification already sent")
		return saga.Succeeded("Notification already sent"), nil
	}

	shouldFail := uc.chance() < uc.rules.NotificationFailureRate

	if notification == nil {
		notification = domain.NewReservation(domain.KindNotification, req, domain.StatusPending)
		notification.Message = fmt.Sprintf("Your order #%s has been completed successfully!", req.Data.OrderID)
	}
	notification.Attempts++

	if shouldFail && notification.Attempts < uc.rules.NotificationMinAttempts {
		notification.Transition(domain.StatusFailed)
		if err := uc.repository.Save(ctx, notification); err != nil {
			return nil, errors.Wrap(err, "error sending notification")
		}

		logger.Warn().Int("attempt", notification.Attempts).Msg("simulated notification failure")
		return saga.Failed("Notification service temporarily unavailable"), nil
	}

	notification.Transition(domain.StatusSent)
	if err := uc.repository.Save(ctx, notification); err != nil {
		return nil, errors.Wrap(err, "error sending notification")
	}

	logger.Info().Int("attempt", notification.Attempts).Msg("notification sent")
	return succeededWith("Notification sent successfully", notification), nil
}
