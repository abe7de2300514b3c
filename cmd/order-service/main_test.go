package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/draftea/order-saga/order-service/config"
	"github.com/draftea/order-saga/order-service/handlers"
	"github.com/draftea/order-saga/shared/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestSetupRouter(t *testing.T) {
	deps := &config.Dependencies{OrderHandlers: handlers.NewOrderHandlers(nil, nil)}
	router := setupRouter(telemetry.NewTelemetry(telemetry.OrderServiceConfig), deps)

	tests := []struct {
		name         string
		method       string
		path         string
		expectedCode int
	}{
		{name: "health", method: http.MethodGet, path: "/health", expectedCode: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/unknown", expectedCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}
