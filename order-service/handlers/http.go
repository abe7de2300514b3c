package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/draftea/order-saga/order-service/application"
	"github.com/draftea/order-saga/order-service/domain"
	"github.com/draftea/order-saga/shared/models"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

// CreateOrderUseCase runs a new order through its saga
type CreateOrderUseCase interface {
	Execute(ctx context.Context, cmd *application.CreateOrderCommand) (*application.OrderResponse, error)
}

// GetOrderUseCase reads an order with its saga progress
type GetOrderUseCase interface {
	Execute(ctx context.Context, query *application.GetOrderQuery) (*application.OrderResponse, error)
}

// OrderHandlers contains order HTTP handlers
type OrderHandlers struct {
	createOrder CreateOrderUseCase
	getOrder    GetOrderUseCase
}

// NewOrderHandlers creates new order handlers
func NewOrderHandlers(createOrder CreateOrderUseCase, getOrder GetOrderUseCase) *OrderHandlers {
	return &OrderHandlers{
		createOrder: createOrder,
		getOrder:    getOrder,
	}
}

// CreateOrder creates an order and answers with the final saga state. A
// failed saga is still a 201: the body carries the failure reason.
func (h *OrderHandlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var cmd application.CreateOrderCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.createOrder.Execute(r.Context(), &cmd)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// GetOrder handles order retrieval requests
func (h *OrderHandlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "Order ID is required")
		return
	}

	response, err := h.getOrder.Execute(r.Context(), &application.GetOrderQuery{OrderID: orderID})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// RegisterRoutes registers order routes
func (h *OrderHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/{id}", h.GetOrder)
	})
}

func statusFor(err error) int {
	switch errors.Cause(err) {
	case domain.ErrOrderNotFound:
		return http.StatusNotFound
	case domain.ErrInvalidOrderID, domain.ErrMissingCustomer, domain.ErrMissingProduct, domain.ErrInvalidQuantity,
		models.ErrInvalidAmount, models.ErrInvalidCurrency:
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
