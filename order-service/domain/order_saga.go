package domain

import (
	"github.com/draftea/order-saga/shared/saga"
)

const OrderSagaName = "order"

// Step names of the order saga
const (
	StepPayment      = "Payment"
	StepInventory    = "Inventory"
	StepShipping     = "Shipping"
	StepNotification = "Notification"
)

// Participants of the order saga
type Participants struct {
	Payment      saga.Participant
	Inventory    saga.Participant
	Shipping     saga.Participant
	Notification saga.Participant
}

// NewOrderSagaCatalog reserves payment and inventory, ships the order (pivot)
// and notifies the customer.
func NewOrderSagaCatalog(p Participants) (*saga.Catalog, error) {
	return saga.NewDefinition(OrderSagaName).
		Compensatable(StepPayment, p.Payment, "reserve", "refund", OrderStatusPaymentReserved).
		Compensatable(StepInventory, p.Inventory, "reserve", "release", OrderStatusInventoryReserved).
		Pivot(StepShipping, p.Shipping, "ship", OrderStatusShipped).
		Retriable(StepNotification, p.Notification, "send", OrderStatusNotificationSent).
		Build()
}
