package domain

import (
	"context"

	"github.com/draftea/order-saga/shared/models"
	"github.com/pkg/errors"
)

var (
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrMissingTransactionID = errors.New("transaction ID is required")
)

// Kind names the participant owning a reservation
type Kind string

const (
	KindPayment      Kind = "payment"
	KindInventory    Kind = "inventory"
	KindShipping     Kind = "shipping"
	KindNotification Kind = "notification"
)

// ReservationStatus is the state of a participant's local record
type ReservationStatus string

const (
	StatusReserved ReservationStatus = "RESERVED"
	StatusRefunded ReservationStatus = "REFUNDED"
	StatusReleased ReservationStatus = "RELEASED"
	StatusShipped  ReservationStatus = "SHIPPED"
	StatusPending  ReservationStatus = "PENDING"
	StatusFailed   ReservationStatus = "FAILED"
	StatusSent     ReservationStatus = "SENT"
)

// OrderData is the order as the orchestrator sends it
type OrderData struct {
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
}

// TransactionRequest is the body of every participant call
type TransactionRequest struct {
	TransactionID models.ID `json:"transaction_id"`
	Data          OrderData `json:"data"`
}

// Validate checks the fields every operation relies on
func (r *TransactionRequest) Validate() error {
	if r.TransactionID == "" {
		return ErrMissingTransactionID
	}
	return nil
}

// Reservation is the local record a participant keeps for one transaction.
// One record exists per (kind, transaction) pair, which is what makes the
// forward operations idempotent.
type Reservation struct {
	ID             models.ID         `json:"id"`
	Kind           Kind              `json:"kind"`
	TransactionID  models.ID         `json:"transaction_id"`
	CustomerID     string            `json:"customer_id"`
	ProductID      string            `json:"product_id,omitempty"`
	Quantity       int               `json:"quantity,omitempty"`
	Amount         models.Money      `json:"amount"`
	Status         ReservationStatus `json:"status"`
	TrackingNumber string            `json:"tracking_number,omitempty"`
	Message        string            `json:"message,omitempty"`
	Attempts       int               `json:"attempt_count,omitempty"`
	Timestamps     models.Timestamps `json:"-"`
	Version        models.Version    `json:"-"`
}

// NewReservation creates a record for the transaction in the given status
func NewReservation(kind Kind, req *TransactionRequest, status ReservationStatus) *Reservation {
	return &Reservation{
		ID:            models.GenerateUUID(),
		Kind:          kind,
		TransactionID: req.TransactionID,
		CustomerID:    req.Data.CustomerID,
		ProductID:     req.Data.ProductID,
		Quantity:      req.Data.Quantity,
		Amount:        models.Money{Amount: req.Data.Amount, Currency: req.Data.Currency},
		Status:        status,
		Timestamps:    models.NewTimestamps(),
		Version:       models.NewVersion(),
	}
}

// Transition moves the record to a new status
func (r *Reservation) Transition(status ReservationStatus) {
	r.Status = status
	r.Timestamps = r.Timestamps.Touch()
	r.Version = r.Version.Next()
}

// Rules are the business limits the participants enforce
type Rules struct {
	MaxPaymentAmount        int64
	MaxInventoryQuantity    int
	NotificationFailureRate float64
	// Simulated notification failures stop once this many attempts were made
	NotificationMinAttempts int
}

// DefaultRules returns the stock limits
func DefaultRules() Rules {
	return Rules{
		MaxPaymentAmount:        10000,
		MaxInventoryQuantity:    100,
		NotificationFailureRate: 0.3,
		NotificationMinAttempts: 2,
	}
}

// ReservationRepository persists participant records
type ReservationRepository interface {
	Save(ctx context.Context, reservation *Reservation) error
	Find(ctx context.Context, kind Kind, transactionID models.ID) (*Reservation, error)
}
