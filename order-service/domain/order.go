package domain

import (
	"context"
	"time"

	"github.com/draftea/order-saga/shared/models"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/pkg/errors"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidOrderID  = errors.New("invalid order ID")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrMissingCustomer = errors.New("customer ID is required")
	ErrMissingProduct  = errors.New("product ID is required")
)

// Order statuses. The intermediate statuses are reported by the saga as each
// step completes.
const (
	OrderStatusPending           = saga.StatusPending
	OrderStatusPaymentReserved   = saga.Status("PAYMENT_RESERVED")
	OrderStatusInventoryReserved = saga.Status("INVENTORY_RESERVED")
	OrderStatusShipped           = saga.Status("SHIPPED")
	OrderStatusNotificationSent  = saga.Status("NOTIFICATION_SENT")
	OrderStatusCompensating      = saga.StatusCompensating
	OrderStatusCompleted         = saga.StatusCompleted
	OrderStatusFailed            = saga.StatusFailed
)

// Order is the business transaction driven by the order saga
type Order struct {
	ID             models.ID
	CustomerID     string
	ProductID      string
	Quantity       int
	Amount         models.Money
	Status         saga.Status
	CompletedSteps []string
	FailureReason  string
	Timestamps     models.Timestamps
	Version        models.Version
}

// OrderPayload is the request body sent to every participant
type OrderPayload struct {
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
}

// NewOrder creates a pending order
func NewOrder(customerID, productID string, quantity int, amount models.Money) (*Order, error) {
	if customerID == "" {
		return nil, ErrMissingCustomer
	}
	if productID == "" {
		return nil, ErrMissingProduct
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	return &Order{
		ID:             models.GenerateUUID(),
		CustomerID:     customerID,
		ProductID:      productID,
		Quantity:       quantity,
		Amount:         amount,
		Status:         OrderStatusPending,
		CompletedSteps: []string{},
		Timestamps:     models.NewTimestamps(),
		Version:        models.NewVersion(),
	}, nil
}

// SagaRequest builds the saga request for this order
func (o *Order) SagaRequest() *saga.Request {
	return saga.NewRequest(o.ID, OrderPayload{
		OrderID:    o.ID.String(),
		CustomerID: o.CustomerID,
		ProductID:  o.ProductID,
		Quantity:   o.Quantity,
		Amount:     o.Amount.Amount,
		Currency:   o.Amount.Currency,
	})
}

// RunState returns the saga progress recorded on the order. The run carries
// the order version, so saving it fails once another run moved the order on.
func (o *Order) RunState() *saga.RunState {
	completed := make([]string, len(o.CompletedSteps))
	copy(completed, o.CompletedSteps)
	return &saga.RunState{
		TransactionID:  o.ID,
		Status:         o.Status,
		CompletedSteps: completed,
		FailureReason:  o.FailureReason,
		Version:        o.Version.Value,
	}
}

// ApplyRunState copies saga progress onto the order
func (o *Order) ApplyRunState(state *saga.RunState) {
	o.Status = state.Status
	o.CompletedSteps = append([]string{}, state.CompletedSteps...)
	o.FailureReason = state.FailureReason
	o.Timestamps = o.Timestamps.Touch()
	o.Version = o.Version.Next()
}

// OrderRepository persists orders. It is also the saga run store: SaveRun
// records the progress of the order with the given transaction id and
// rejects a versioned run whose version is no longer the order's.
//
// FindIncomplete returns non-terminal orders last updated before the cutoff.
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id models.ID) (*Order, error)
	FindIncomplete(ctx context.Context, before time.Time, limit int) ([]*Order, error)
	SaveRun(ctx context.Context, state *saga.RunState) error
}
