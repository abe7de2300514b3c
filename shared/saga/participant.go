package saga

import (
	"context"
	"encoding/json"

	"github.com/draftea/order-saga/shared/models"
)

// Request is the business payload of a saga run. It is passed unchanged to
// every forward and compensating call.
type Request struct {
	TransactionID models.ID   `json:"transaction_id"`
	Payload       interface{} `json:"data"`
}

// NewRequest creates a request for the given transaction
func NewRequest(transactionID models.ID, payload interface{}) *Request {
	return &Request{
		TransactionID: transactionID,
		Payload:       payload,
	}
}

// Outcome is the uniform result of a participant call
type Outcome struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Succeeded builds a successful outcome
func Succeeded(message string) *Outcome {
	return &Outcome{Success: true, Message: message}
}

// Failed builds a failed outcome
func Failed(message string) *Outcome {
	return &Outcome{Success: false, Message: message}
}

// Participant is a remote service taking part in a saga. Forward operations
// must be idempotent for a given transaction id.
type Participant interface {
	Invoke(ctx context.Context, operation string, req *Request) (*Outcome, error)
}

// ParticipantFunc adapts a function to the Participant interface
type ParticipantFunc func(ctx context.Context, operation string, req *Request) (*Outcome, error)

func (f ParticipantFunc) Invoke(ctx context.Context, operation string, req *Request) (*Outcome, error) {
	return f(ctx, operation, req)
}
