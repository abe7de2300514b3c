package application

import (
	"context"
	"sync"
	"time"

	"github.com/draftea/order-saga/order-service/domain"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ResumeReport counts the outcome of a recovery pass
type ResumeReport struct {
	Resumed   int `json:"resumed"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// ResumeIncompleteOrders continues sagas left unfinished by a previous
// process, starting at the first step not yet completed. Only orders last
// touched before this use case was built, and idle for at least staleAfter,
// are picked up; a run another orchestration moved on is skipped.
type ResumeIncompleteOrders struct {
	orderRepository domain.OrderRepository
	orderSaga       OrderSaga
	workers         int
	batchSize       int
	staleAfter      time.Duration
	startedAt       time.Time
	logger          zerolog.Logger
}

// NewResumeIncompleteOrders creates a new ResumeIncompleteOrders use case
func NewResumeIncompleteOrders(
	orderRepository domain.OrderRepository,
	orderSaga OrderSaga,
	workers int,
	batchSize int,
	staleAfter time.Duration,
	logger zerolog.Logger,
) *ResumeIncompleteOrders {
	if workers <= 0 {
		workers = 1
	}
	return &ResumeIncompleteOrders{
		orderRepository: orderRepository,
		orderSaga:       orderSaga,
		workers:         workers,
		batchSize:       batchSize,
		staleAfter:      staleAfter,
		startedAt:       time.Now(),
		logger:          logger,
	}
}

func (uc *ResumeIncompleteOrders) cutoff() time.Time {
	idle := time.Now().Add(-uc.staleAfter)
	if idle.Before(uc.startedAt) {
		return idle
	}
	return uc.startedAt
}

// Execute resumes one batch of incomplete orders. Errors of individual runs
// are logged and counted; only a failed lookup is returned.
func (uc *ResumeIncompleteOrders) Execute(ctx context.Context) (*ResumeReport, error) {
	orders, err := uc.orderRepository.FindIncomplete(ctx, uc.cutoff(), uc.batchSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find incomplete orders")
	}

	report := &ResumeReport{}
	if len(orders) == 0 {
		return report, nil
	}

	uc.logger.Info().Int("orders", len(orders)).Msg("resuming incomplete order sagas")

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)

	for _, order := range orders {
		g.Go(func() error {
			state, err := uc.orderSaga.Resume(gctx, order.RunState(), order.SagaRequest())

			mu.Lock()
			defer mu.Unlock()
			report.Resumed++

			if errors.Is(err, saga.ErrRunConflict) {
				report.Skipped++
				uc.logger.Info().Str("order_id", order.ID.String()).Msg("order saga is run elsewhere, skipping")
				return nil
			}
			if err != nil {
				report.Errors++
				uc.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to resume order saga")
				return nil
			}

			switch state.Status {
			case saga.StatusCompleted:
				report.Completed++
			case saga.StatusFailed:
				report.Failed++
			}
			return nil
		})
	}

	_ = g.Wait()

	uc.logger.Info().
		Int("resumed", report.Resumed).
		Int("completed", report.Completed).
		Int("failed", report.Failed).
		Int("skipped", report.Skipped).
		Int("errors", report.Errors).
		Msg("recovery pass finished")

	return report, nil
}
