package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/draftea/order-saga/participants-service/domain"
	"github.com/draftea/order-saga/shared/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var _ domain.ReservationRepository = (*PostgresReservationRepository)(nil)

// PostgresReservationRepository implements ReservationRepository using
// PostgreSQL. (kind, transaction_id) is unique in the reservations table.
type PostgresReservationRepository struct {
	db *sqlx.DB
}

// NewPostgresReservationRepository creates a new PostgresReservationRepository
func NewPostgresReservationRepository(db *sqlx.DB) *PostgresReservationRepository {
	return &PostgresReservationRepository{db: db}
}

type postgresReservation struct {
	ID             string         `db:"id"`
	Kind           string         `db:"kind"`
	TransactionID  string         `db:"transaction_id"`
	CustomerID     string         `db:"customer_id"`
	ProductID      sql.NullString `db:"product_id"`
	Quantity       int            `db:"quantity"`
	Amount         int64          `db:"amount"`
	Currency       string         `db:"currency"`
	Status         string         `db:"status"`
	TrackingNumber sql.NullString `db:"tracking_number"`
	Message        sql.NullString `db:"message"`
	Attempts       int            `db:"attempt_count"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	Version        int            `db:"version"`
}

const reservationColumns = `id, kind, transaction_id, customer_id, product_id, quantity, amount, currency,
	status, tracking_number, message, attempt_count, created_at, updated_at, version`

// Save inserts the reservation or updates its status fields
func (r *PostgresReservationRepository) Save(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		INSERT INTO reservations (` + reservationColumns + `) VALUES (
			:id, :kind, :transaction_id, :customer_id, :product_id, :quantity, :amount, :currency,
			:status, :tracking_number, :message, :attempt_count, :created_at, :updated_at, :version
		)
		ON CONFLICT (kind, transaction_id) DO UPDATE SET
			status = EXCLUDED.status,
			tracking_number = EXCLUDED.tracking_number,
			message = EXCLUDED.message,
			attempt_count = EXCLUDED.attempt_count,
			updated_at = EXCLUDED.updated_at,
			version = EXCLUDED.version`

	if _, err := r.db.NamedExecContext(ctx, query, toPostgresReservation(reservation)); err != nil {
		return errors.Wrapf(err, "failed to save %s reservation", reservation.Kind)
	}

	return nil
}

// Find returns the kind's record for a transaction
func (r *PostgresReservationRepository) Find(ctx context.Context, kind domain.Kind, transactionID models.ID) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE kind = $1 AND transaction_id = $2`

	var row postgresReservation
	if err := r.db.GetContext(ctx, &row, query, string(kind), transactionID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, errors.Wrapf(err, "failed to find %s reservation", kind)
	}

	return row.toDomain(), nil
}

func toPostgresReservation(r *domain.Reservation) *postgresReservation {
	return &postgresReservation{
		ID:             r.ID.String(),
		Kind:           string(r.Kind),
		TransactionID:  r.TransactionID.String(),
		CustomerID:     r.CustomerID,
		ProductID:      nullString(r.ProductID),
		Quantity:       r.Quantity,
		Amount:         r.Amount.Amount,
		Currency:       r.Amount.Currency,
		Status:         string(r.Status),
		TrackingNumber: nullString(r.TrackingNumber),
		Message:        nullString(r.Message),
		Attempts:       r.Attempts,
		CreatedAt:      r.Timestamps.CreatedAt,
		UpdatedAt:      r.Timestamps.UpdatedAt,
		Version:        r.Version.Value,
	}
}

func (p *postgresReservation) toDomain() *domain.Reservation {
	return &domain.Reservation{
		ID:             models.ID(p.ID),
		Kind:           domain.Kind(p.Kind),
		TransactionID:  models.ID(p.TransactionID),
		CustomerID:     p.CustomerID,
		ProductID:      p.ProductID.String,
		Quantity:       p.Quantity,
		Amount:         models.Money{Amount: p.Amount, Currency: p.Currency},
		Status:         domain.ReservationStatus(p.Status),
		TrackingNumber: p.TrackingNumber.String,
		Message:        p.Message.String,
		Attempts:       p.Attempts,
		Timestamps: models.Timestamps{
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
		Version: models.Version{Value: p.Version},
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
