package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/draftea/order-saga/order-service/application"
	"github.com/draftea/order-saga/order-service/domain"
	"github.com/draftea/order-saga/shared/events"
	"github.com/draftea/order-saga/shared/models"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const orderID = "550e8400-e29b-41d4-a716-446655440020"

func newRouter(createOrder CreateOrderUseCase, getOrder GetOrderUseCase) http.Handler {
	r := chi.NewRouter()
	NewOrderHandlers(createOrder, getOrder).RegisterRoutes(r)
	return r
}

func TestOrderHandlers_CreateOrder(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*MockCreateOrderUseCase)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "failed saga is reported in the body",
			body: `{"customer_id":"c-1","product_id":"p-1","quantity":1,"amount":20000,"currency":"USD"}`,
			setupMocks: func(uc *MockCreateOrderUseCase) {
				uc.EXPECT().Execute(mock.Anything, &application.CreateOrderCommand{
					CustomerID: "c-1", ProductID: "p-1", Quantity: 1, Amount: 20000, Currency: "USD",
				}).Return(&application.OrderResponse{
					OrderID:        orderID,
					Status:         "FAILED",
					CompletedSteps: []string{},
					FailureReason:  "Failed at step: Payment",
					Message:        "Order failed: Failed at step: Payment",
				}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"failure_reason":"Failed at step: Payment"`,
		},
		{
			name:           "malformed body",
			body:           `{"customer_id":`,
			setupMocks:     func(*MockCreateOrderUseCase) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request body",
		},
		{
			name: "validation error",
			body: `{"product_id":"p-1","quantity":1,"amount":100,"currency":"USD"}`,
			setupMocks: func(uc *MockCreateOrderUseCase) {
				uc.EXPECT().Execute(mock.Anything, mock.Anything).
					Return(nil, errors.Wrap(domain.ErrMissingCustomer, "invalid command")).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "customer ID is required",
		},
		{
			name: "unexpected error",
			body: `{"customer_id":"c-1","product_id":"p-1","quantity":1,"amount":100,"currency":"USD"}`,
			setupMocks: func(uc *MockCreateOrderUseCase) {
				uc.EXPECT().Execute(mock.Anything, mock.Anything).
					Return(nil, errors.Wrap(errors.New("connection refused"), "failed to save order")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "failed to save order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			createOrder := NewMockCreateOrderUseCase(t)
			tt.setupMocks(createOrder)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/orders/", bytes.NewBufferString(tt.body))
			newRouter(createOrder, NewMockGetOrderUseCase(t)).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
		})
	}
}

func TestOrderHandlers_GetOrder(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*MockGetOrderUseCase)
		expectedStatus int
	}{
		{
			name: "found",
			setupMocks: func(uc *MockGetOrderUseCase) {
				uc.EXPECT().Execute(mock.Anything, &application.GetOrderQuery{OrderID: orderID}).
					Return(&application.OrderResponse{OrderID: orderID, Status: "COMPLETED"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			setupMocks: func(uc *MockGetOrderUseCase) {
				uc.EXPECT().Execute(mock.Anything, mock.Anything).
					Return(nil, errors.Wrap(domain.ErrOrderNotFound, "failed to find order")).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "invalid id",
			setupMocks: func(uc *MockGetOrderUseCase) {
				uc.EXPECT().Execute(mock.Anything, mock.Anything).
					Return(nil, errors.Wrapf(domain.ErrInvalidOrderID, "%q", orderID)).Once()
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getOrder := NewMockGetOrderUseCase(t)
			tt.setupMocks(getOrder)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/orders/"+orderID, nil)
			newRouter(NewMockCreateOrderUseCase(t), getOrder).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if rec.Code == http.StatusOK {
				var body application.OrderResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "COMPLETED", body.Status)
			}
		})
	}
}

func TestOrderEventHandlers_Handle(t *testing.T) {
	transactionID := models.GenerateUUID()
	failure := &saga.CompensationFailure{
		Saga:          domain.OrderSagaName,
		TransactionID: transactionID,
		Step:          domain.StepPayment,
		Operation:     "refund",
	}

	t.Run("compensation failure is retried", func(t *testing.T) {
		uc := NewMockRetryCompensationUseCase(t)
		uc.EXPECT().Execute(mock.Anything, mock.MatchedBy(func(f *saga.CompensationFailure) bool {
			return f.TransactionID == transactionID && f.Step == domain.StepPayment
		})).Return(nil).Once()

		// payload as it arrives from the queue
		raw, err := json.Marshal(failure)
		require.NoError(t, err)
		event := events.NewEvent(transactionID, events.SagaCompensationFailedEvent, json.RawMessage(raw))

		assert.NoError(t, NewOrderEventHandlers(uc, zerolog.Nop()).Handle(context.Background(), event))
	})

	t.Run("retry failure is returned for redelivery", func(t *testing.T) {
		uc := NewMockRetryCompensationUseCase(t)
		uc.EXPECT().Execute(mock.Anything, mock.Anything).Return(errors.New("still failing")).Once()

		event := events.NewEvent(transactionID, events.SagaCompensationFailedEvent, failure)
		err := NewOrderEventHandlers(uc, zerolog.Nop()).Handle(context.Background(), event)

		assert.ErrorContains(t, err, "still failing")
	})

	t.Run("malformed payload is dropped", func(t *testing.T) {
		uc := NewMockRetryCompensationUseCase(t)
		event := events.NewEvent(transactionID, events.SagaCompensationFailedEvent, json.RawMessage(`"nope"`))

		assert.NoError(t, NewOrderEventHandlers(uc, zerolog.Nop()).Handle(context.Background(), event))
	})

	t.Run("other events are ignored", func(t *testing.T) {
		uc := NewMockRetryCompensationUseCase(t)
		event := events.NewEvent(transactionID, events.SagaCompletedEvent, nil)

		assert.NoError(t, NewOrderEventHandlers(uc, zerolog.Nop()).Handle(context.Background(), event))
		assert.Equal(t, "order-service-event-handler", NewOrderEventHandlers(uc, zerolog.Nop()).HandlerID())
	})
}
