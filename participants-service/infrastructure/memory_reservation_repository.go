package infrastructure

import (
	"context"

	"github.com/draftea/order-saga/participants-service/domain"
	"github.com/draftea/order-saga/shared/models"
	"github.com/puzpuzpuz/xsync/v3"
)

var _ domain.ReservationRepository = (*MemoryReservationRepository)(nil)

type reservationKey struct {
	kind          domain.Kind
	transactionID models.ID
}

// MemoryReservationRepository keeps reservations in a concurrent map. Stored
// values are copies, so callers never share a record.
type MemoryReservationRepository struct {
	reservations *xsync.MapOf[reservationKey, domain.Reservation]
}

// NewMemoryReservationRepository creates an empty repository
func NewMemoryReservationRepository() *MemoryReservationRepository {
	return &MemoryReservationRepository{
		reservations: xsync.NewMapOf[reservationKey, domain.Reservation](),
	}
}

func (r *MemoryReservationRepository) Save(_ context.Context, reservation *domain.Reservation) error {
	key := reservationKey{kind: reservation.Kind, transactionID: reservation.TransactionID}
	r.reservations.Store(key, *reservation)
	return nil
}

func (r *MemoryReservationRepository) Find(_ context.Context, kind domain.Kind, transactionID models.ID) (*domain.Reservation, error) {
	reservation, ok := r.reservations.Load(reservationKey{kind: kind, transactionID: transactionID})
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	return &reservation, nil
}

// Len reports how many reservations are stored
func (r *MemoryReservationRepository) Len() int {
	return r.reservations.Size()
}
