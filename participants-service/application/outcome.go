package application

import (
	"encoding/json"

	"github.com/draftea/order-saga/participants-service/domain"
	"github.com/draftea/order-saga/shared/saga"
)

// succeededWith builds a successful outcome carrying the participant record
func succeededWith(message string, reservation *domain.Reservation) *saga.Outcome {
	outcome := saga.Succeeded(message)
	if reservation == nil {
		return outcome
	}

	data, err := json.Marshal(reservation)
	if err == nil {
		outcome.Data = data
	}
	return outcome
}
