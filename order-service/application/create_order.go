package application

import (
	"context"

	"github.com/draftea/order-saga/order-service/domain"
	"github.com/draftea/order-saga/shared/events"
	"github.com/draftea/order-saga/shared/models"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// OrderSaga runs an order saga from its stored progress
type OrderSaga interface {
	Resume(ctx context.Context, state *saga.RunState, req *saga.Request) (*saga.RunState, error)
}

// CreateOrderCommand represents the command to create an order
type CreateOrderCommand struct {
	CustomerID string `json:"customer_id"`
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
}

// OrderResponse is the order with its saga progress
type OrderResponse struct {
	OrderID        string   `json:"order_id"`
	CustomerID     string   `json:"customer_id"`
	ProductID      string   `json:"product_id"`
	Quantity       int      `json:"quantity"`
	Amount         int64    `json:"amount"`
	Currency       string   `json:"currency"`
	Status         string   `json:"status"`
	CompletedSteps []string `json:"completed_steps"`
	FailureReason  string   `json:"failure_reason,omitempty"`
	Message        string   `json:"message,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

func newOrderResponse(order *domain.Order) *OrderResponse {
	return &OrderResponse{
		OrderID:        order.ID.String(),
		CustomerID:     order.CustomerID,
		ProductID:      order.ProductID,
		Quantity:       order.Quantity,
		Amount:         order.Amount.Amount,
		Currency:       order.Amount.Currency,
		Status:         order.Status.String(),
		CompletedSteps: append([]string{}, order.CompletedSteps...),
		FailureReason:  order.FailureReason,
		CreatedAt:      order.Timestamps.CreatedAt.Format(timeLayout),
		UpdatedAt:      order.Timestamps.UpdatedAt.Format(timeLayout),
	}
}

// CreateOrder creates an order and runs its saga to completion
type CreateOrder struct {
	orderRepository domain.OrderRepository
	orderSaga       OrderSaga
	eventPublisher  events.Publisher
	logger          zerolog.Logger
}

// NewCreateOrder creates a new CreateOrder use case
func NewCreateOrder(
	orderRepository domain.OrderRepository,
	orderSaga OrderSaga,
	eventPublisher events.Publisher,
	logger zerolog.Logger,
) *CreateOrder {
	return &CreateOrder{
		orderRepository: orderRepository,
		orderSaga:       orderSaga,
		eventPublisher:  eventPublisher,
		logger:          logger,
	}
}

// Execute creates the order and blocks until its saga is COMPLETED or FAILED.
// A failed saga is not an error: the response carries the failure reason.
func (uc *CreateOrder) Execute(ctx context.Context, cmd *CreateOrderCommand) (*OrderResponse, error) {
	amount, err := models.NewMoney(cmd.Amount, cmd.Currency)
	if err != nil {
		return nil, errors.Wrap(err, "invalid command")
	}

	order, err := domain.NewOrder(cmd.CustomerID, cmd.ProductID, cmd.Quantity, amount)
	if err != nil {
		return nil, errors.Wrap(err, "invalid command")
	}

	if err := uc.orderRepository.Save(ctx, order); err != nil {
		return nil, errors.Wrap(err, "failed to save order")
	}

	created := events.NewEvent(order.ID, events.OrderCreatedEvent, order.SagaRequest().Payload).
		WithCorrelationID(order.ID)
	if err := uc.eventPublisher.Publish(ctx, created); err != nil {
		uc.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to publish order created event")
	}

	logger := uc.logger.With().Str("order_id", order.ID.String()).Logger()
	logger.Info().Msg("starting order saga")

	// runs from the stored order so the run is fenced by the order version
	state, err := uc.orderSaga.Resume(ctx, order.RunState(), order.SagaRequest())
	if state != nil {
		order.ApplyRunState(state)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to run order saga")
	}

	response := newOrderResponse(order)
	if order.Status == domain.OrderStatusCompleted {
		response.Message = "Order completed successfully"
	} else {
		response.Message = "Order failed: " + order.FailureReason
	}

	logger.Info().Str("status", response.Status).Msg("order saga finished")
	return response, nil
}
