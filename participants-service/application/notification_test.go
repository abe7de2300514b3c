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

func fixedChance(v float64) func() float64 {
	return func() float64 { return v }
}

func TestSendNotification_Execute(t *testing.T) {
	tests := []struct {
		name            string
		chance          float64
		existing        *domain.Reservation
		expectSave      func(*domain.Reservation) bool
		expectedSuccess bool
		expectedMessage string
	}{
		{
			name:   "first attempt succeeds",
			chance: 0.9,
			expectSave: func(r *domain.Reservation) bool {
				return r.Status == domain.StatusSent && r.Attempts == 1 &&
					r.Message == "Your order #"+transactionID.String()+" has been completed successfully!"
			},
			expectedSuccess: true,
			expectedMessage: "Notification sent successfully",
		},
		{
			name:   "first attempt hits a simulated outage",
			chance: 0.1,
			expectSave: func(r *domain.Reservation) bool {
				return r.Status == domain.StatusFailed && r.Attempts == 1
			},
			expectedMessage: "Notification service temporarily unavailable",
		},
		{
			name:   "second attempt always goes through",
			chance: 0.1,
			existing: func() *domain.Reservation {
				r := domain.NewReservation(domain.KindNotification, newRequest(100, 1), domain.StatusFailed)
				r.Attempts = 1
				return r
			}(),
			expectSave: func(r *domain.Reservation) bool {
				return r.Status == domain.StatusSent && r.Attempts == 2
			},
			expectedSuccess: true,
			expectedMessage: "Notification sent successfully",
		},
		{
			name:            "already sent",
			chance:          0.1,
			existing:        domain.NewReservation(domain.KindNotification, newRequest(100, 1), domain.StatusSent),
			expectedSuccess: true,
			expectedMessage: "Notification already sent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockReservationRepository(t)
			if tt.existing != nil {
				repo.EXPECT().Find(mock.Anything, domain.KindNotification, transactionID).Return(tt.existing, nil).Once()
			} else {
				repo.EXPECT().Find(mock.Anything, domain.KindNotification, transactionID).
					Return(nil, domain.ErrReservationNotFound).Once()
			}
			if tt.expectSave != nil {
				repo.EXPECT().Save(mock.Anything, mock.MatchedBy(tt.expectSave)).Return(nil).Once()
			}

			uc := NewSendNotification(repo, domain.DefaultRules(), fixedChance(tt.chance), zerolog.Nop())
			outcome, err := uc.Execute(context.Background(), newRequest(100, 1))

			require.NoError(t, err)
			assert.Equal(t, tt.expectedSuccess, outcome.Success)
			assert.Equal(t, tt.expectedMessage, outcome.Message)
		})
	}
}
