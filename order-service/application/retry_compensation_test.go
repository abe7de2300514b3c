package application

import (
	"context"
	"testing"

	"github.com/draftea/order-saga/order-service/domain"
	"github.com/draftea/order-saga/order-service/mocks"
	"github.com/draftea/order-saga/shared/events"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRetryCompensation_Execute(t *testing.T) {
	order := newTestOrder(t, domain.OrderStatusFailed, "Payment", "Inventory")
	failure := &saga.CompensationFailure{
		Saga:          domain.OrderSagaName,
		TransactionID: order.ID,
		Step:          domain.StepInventory,
		Operation:     "release",
		Reason:        "inventory unavailable",
	}

	tests := []struct {
		name          string
		setupMocks    func(*mocks.MockOrderRepository, *mocks.MockCompensationRetrier, *mocks.MockPublisher)
		expectedError string
	}{
		{
			name: "compensation recovered",
			setupMocks: func(repo *mocks.MockOrderRepository, retrier *mocks.MockCompensationRetrier, publisher *mocks.MockPublisher) {
				repo.EXPECT().FindByID(mock.Anything, order.ID).Return(order, nil).Once()
				retrier.EXPECT().Retry(mock.Anything, failure, mock.MatchedBy(func(req *saga.Request) bool {
					return req.TransactionID == order.ID
				})).Return(saga.Succeeded("Inventory released successfully"), nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.MatchedBy(func(evt *events.Event) bool {
					return evt.EventType == events.SagaCompensationRecoveredEvent && evt.Metadata["step"] == domain.StepInventory
				})).Return(nil).Once()
			},
		},
		{
			name: "still failing is redelivered",
			setupMocks: func(repo *mocks.MockOrderRepository, retrier *mocks.MockCompensationRetrier, _ *mocks.MockPublisher) {
				repo.EXPECT().FindByID(mock.Anything, order.ID).Return(order, nil).Once()
				retrier.EXPECT().Retry(mock.Anything, failure, mock.Anything).
					Return(saga.Failed("inventory unavailable"), nil).Once()
			},
			expectedError: "compensation of Inventory still failing: inventory unavailable",
		},
		{
			name: "unknown order is dropped",
			setupMocks: func(repo *mocks.MockOrderRepository, _ *mocks.MockCompensationRetrier, _ *mocks.MockPublisher) {
				repo.EXPECT().FindByID(mock.Anything, order.ID).Return(nil, domain.ErrOrderNotFound).Once()
			},
		},
		{
			name: "non compensatable step is dropped",
			setupMocks: func(repo *mocks.MockOrderRepository, retrier *mocks.MockCompensationRetrier, _ *mocks.MockPublisher) {
				repo.EXPECT().FindByID(mock.Anything, order.ID).Return(order, nil).Once()
				retrier.EXPECT().Retry(mock.Anything, failure, mock.Anything).
					Return(nil, errors.Wrap(saga.ErrNotCompensatable, "step \"Shipping\"")).Once()
			},
		},
		{
			name: "repository error is redelivered",
			setupMocks: func(repo *mocks.MockOrderRepository, _ *mocks.MockCompensationRetrier, _ *mocks.MockPublisher) {
				repo.EXPECT().FindByID(mock.Anything, order.ID).Return(nil, errors.New("database error")).Once()
			},
			expectedError: "failed to find order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockOrderRepository(t)
			retrier := mocks.NewMockCompensationRetrier(t)
			publisher := mocks.NewMockPublisher(t)
			tt.setupMocks(repo, retrier, publisher)

			err := NewRetryCompensation(repo, retrier, publisher, zerolog.Nop()).Execute(context.Background(), failure)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			assert.NoError(t, err)
		})
	}
}
