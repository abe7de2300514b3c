package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/draftea/order-saga/participants-service/domain"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Operation is one participant operation: a forward step or its compensation
type Operation interface {
	Execute(ctx context.Context, req *domain.TransactionRequest) (*saga.Outcome, error)
}

// Operations groups every operation the service exposes
type Operations struct {
	ReservePayment   Operation
	RefundPayment    Operation
	ReserveInventory Operation
	ReleaseInventory Operation
	ShipOrder        Operation
	SendNotification Operation
}

// ParticipantHandlers serves the participant endpoints the orchestrator calls
type ParticipantHandlers struct {
	operations Operations
	logger     zerolog.Logger
}

// NewParticipantHandlers creates new participant handlers
func NewParticipantHandlers(operations Operations, logger zerolog.Logger) *ParticipantHandlers {
	return &ParticipantHandlers{
		operations: operations,
		logger:     logger,
	}
}

// RegisterRoutes registers participant routes
func (h *ParticipantHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/payment", func(r chi.Router) {
		r.Post("/reserve", h.serve(h.operations.ReservePayment))
		r.Post("/refund", h.serve(h.operations.RefundPayment))
	})
	r.Route("/inventory", func(r chi.Router) {
		r.Post("/reserve", h.serve(h.operations.ReserveInventory))
		r.Post("/release", h.serve(h.operations.ReleaseInventory))
	})
	r.Route("/shipping", func(r chi.Router) {
		r.Post("/ship", h.serve(h.operations.ShipOrder))
	})
	r.Route("/notification", func(r chi.Router) {
		r.Post("/send", h.serve(h.operations.SendNotification))
	})
}

// serve decodes the transaction and always answers with an outcome body.
// Business failures are 200 with success=false; broken requests and storage
// errors get an error status.
func (h *ParticipantHandlers) serve(op Operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.TransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, saga.Failed("Invalid request body"))
			return
		}
		if err := req.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, saga.Failed(err.Error()))
			return
		}

		outcome, err := op.Execute(r.Context(), &req)
		if err != nil {
			h.logger.Error().Err(err).
				Str("path", r.URL.Path).
				Str("transaction_id", req.TransactionID.String()).
				Msg("participant operation failed")
			writeJSON(w, http.StatusInternalServerError, saga.Failed(err.Error()))
			return
		}

		writeJSON(w, http.StatusOK, outcome)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
