package application

import (
	"context"
	"testing"
	"time"

	"github.com/draftea/order-saga/order-service/domain"
	"github.com/draftea/order-saga/order-service/mocks"
	"github.com/draftea/order-saga/shared/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetOrder_Execute(t *testing.T) {
	validOrderID := "550e8400-e29b-41d4-a716-446655440020"
	testTime := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	amount, _ := models.NewMoney(5000, "USD")

	failedOrder := &domain.Order{
		ID:             models.ID(validOrderID),
		CustomerID:     "customer-1",
		ProductID:      "product-1",
		Quantity:       2,
		Amount:         amount,
		Status:         domain.OrderStatusFailed,
		CompletedSteps: []string{"Payment"},
		FailureReason:  "Failed at step: Inventory",
		Timestamps:     models.Timestamps{CreatedAt: testTime, UpdatedAt: testTime.Add(time.Second)},
	}

	tests := []struct {
		name          string
		query         *GetOrderQuery
		setupMocks    func(*mocks.MockOrderRepository)
		expectedError string
		notFound      bool
	}{
		{
			name:  "order with failure reason",
			query: &GetOrderQuery{OrderID: validOrderID},
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.EXPECT().FindByID(mock.Anything, models.ID(validOrderID)).Return(failedOrder, nil).Once()
			},
		},
		{
			name:          "empty order ID",
			query:         &GetOrderQuery{},
			setupMocks:    func(*mocks.MockOrderRepository) {},
			expectedError: "order ID is required",
		},
		{
			name:          "invalid order ID format",
			query:         &GetOrderQuery{OrderID: "invalid-uuid"},
			setupMocks:    func(*mocks.MockOrderRepository) {},
			expectedError: "invalid order ID",
		},
		{
			name:  "order not found",
			query: &GetOrderQuery{OrderID: validOrderID},
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.EXPECT().FindByID(mock.Anything, models.ID(validOrderID)).Return(nil, domain.ErrOrderNotFound).Once()
			},
			expectedError: "order not found",
			notFound:      true,
		},
		{
			name:  "repository error",
			query: &GetOrderQuery{OrderID: validOrderID},
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.EXPECT().FindByID(mock.Anything, models.ID(validOrderID)).Return(nil, errors.New("database error")).Once()
			},
			expectedError: "failed to find order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockOrderRepository(t)
			tt.setupMocks(repo)

			result, err := NewGetOrder(repo).Execute(context.Background(), tt.query)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Equal(t, tt.notFound, errors.Is(err, domain.ErrOrderNotFound))
				assert.Nil(t, result)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, validOrderID, result.OrderID)
			assert.Equal(t, "FAILED", result.Status)
			assert.Equal(t, "Failed at step: Inventory", result.FailureReason)
			assert.Equal(t, []string{"Payment"}, result.CompletedSteps)
			assert.Equal(t, testTime.Format(timeLayout), result.CreatedAt)
			assert.Equal(t, testTime.Add(time.Second).Format(timeLayout), result.UpdatedAt)
		})
	}
}
