package application

import (
	"context"
	"testing"

	"github.com/draftea/order-saga/participants-service/domain"
	"github.com/draftea/order-saga/participants-service/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReserveInventory_Execute(t *testing.T) {
	tests := []struct {
		name            string
		quantity        int
		setupMocks      func(*mocks.MockReservationRepository)
		expectedSuccess bool
		expectedMessage string
	}{
		{
			name:     "reserves stock",
			quantity: 100,
			setupMocks: func(repo *mocks.MockReservationRepository) {
				repo.EXPECT().Find(mock.Anything, domain.KindInventory, transactionID).
					Return(nil, domain.ErrReservationNotFound).Once()
				repo.EXPECT().Save(mock.Anything, mock.MatchedBy(func(r *domain.Reservation) bool {
					return r.Kind == domain.KindInventory && r.Quantity == 100 && r.ProductID == "product-1"
				})).Return(nil).Once()
			},
			expectedSuccess: true,
			expectedMessage: "Inventory reserved successfully",
		},
		{
			name:            "quantity over the limit",
			quantity:        101,
			setupMocks:      func(*mocks.MockReservationRepository) {},
			expectedMessage: "Insufficient inventory",
		},
		{
			name:     "already reserved",
			quantity: 5,
			setupMocks: func(repo *mocks.MockReservationRepository) {
				existing := domain.NewReservation(domain.KindInventory, newRequest(100, 5), domain.StatusReserved)
				repo.EXPECT().Find(mock.Anything, domain.KindInventory, transactionID).Return(existing, nil).Once()
			},
			expectedSuccess: true,
			expectedMessage: "Inventory already reserved",
		},
		{
			name:     "released inventory is not reserved again",
			quantity: 5,
			setupMocks: func(repo *mocks.MockReservationRepository) {
				existing := domain.NewReservation(domain.KindInventory, newRequest(100, 5), domain.StatusReleased)
				repo.EXPECT().Find(mock.Anything, domain.KindInventory, transactionID).Return(existing, nil).Once()
			},
			expectedMessage: "Inventory already released",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockReservationRepository(t)
			tt.setupMocks(repo)

			outcome, err := NewReserveInventory(repo, domain.DefaultRules(), zerolog.Nop()).
				Execute(context.Background(), newRequest(100, tt.quantity))

			require.NoError(t, err)
			assert.Equal(t, tt.expectedSuccess, outcome.Success)
			assert.Equal(t, tt.expectedMessage, outcome.Message)
		})
	}
}

func TestReleaseInventory_Execute(t *testing.T) {
	t.Run("releases a reservation", func(t *testing.T) {
		repo := mocks.NewMockReservationRepository(t)
		existing := domain.NewReservation(domain.KindInventory, newRequest(100, 5), domain.StatusReserved)
		repo.EXPECT().Find(mock.Anything, domain.KindInventory, transactionID).Return(existing, nil).Once()
		repo.EXPECT().Save(mock.Anything, mock.MatchedBy(func(r *domain.Reservation) bool {
			return r.Status == domain.StatusReleased
		})).Return(nil).Once()

		outcome, err := NewReleaseInventory(repo, zerolog.Nop()).Execute(context.Background(), newRequest(100, 5))

		require.NoError(t, err)
		assert.True(t, outcome.Success)
		assert.Equal(t, "Inventory released successfully", outcome.Message)
	})

	t.Run("nothing to release", func(t *testing.T) {
		repo := mocks.NewMockReservationRepository(t)
		repo.EXPECT().Find(mock.Anything, domain.KindInventory, transactionID).
			Return(nil, domain.ErrReservationNotFound).Once()

		outcome, err := NewReleaseInventory(repo, zerolog.Nop()).Execute(context.Background(), newRequest(100, 5))

		require.NoError(t, err)
		assert.False(t, outcome.Success)
		assert.Equal(t, "Error releasing inventory: Reservation not found", outcome.Message)
	})
}
