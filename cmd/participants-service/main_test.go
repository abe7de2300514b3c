package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/draftea/order-saga/participants-service/config"
	"github.com/draftea/order-saga/shared/models"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/draftea/order-saga/shared/telemetry"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter(t *testing.T) {
	cfg := &config.Config{
		ServiceName: "participants-service",
		Database:    config.Database{Driver: "memory"},
		Rules: config.Rules{
			MaxPaymentAmount:     10000,
			MaxInventoryQuantity: 100,
		},
	}
	deps, err := config.BuildDependencies(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })

	router := setupRouter(telemetry.NewTelemetry(telemetry.ParticipantsServiceConfig), deps)

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("payment reserve", func(t *testing.T) {
		body, err := json.Marshal(map[string]interface{}{
			"transaction_id": models.GenerateUUID(),
			"data":           map[string]interface{}{"customer_id": "customer-1", "amount": 500, "currency": "USD"},
		})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payment/reserve", bytes.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		var outcome saga.Outcome
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
		assert.True(t, outcome.Success)
		assert.Equal(t, "Payment reserved successfully", outcome.Message)
	})
}
