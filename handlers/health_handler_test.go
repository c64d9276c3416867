package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fenilmodi00/planillas-dashboard/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoint(t *testing.T) {
	dashboard := newTestDashboard(t)

	resp := dashboard.get(t, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["session_backend"])
	assert.Contains(t, body, "gateway")
	assert.Contains(t, body, "submissions")
}

func TestHealthDegradedWhenCheckFails(t *testing.T) {
	handler := NewHealthHandler(nil, shared.NewServiceMetrics("SubmissionWorkflow"), "postgres", map[string]HealthCheck{
		"database": func(context.Context) error { return errors.New("connection refused") },
	})

	app := fiber.New()
	app.Get("/health", handler.Health)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, map[string]any{"database": "connection refused"}, body["checks"])
	assert.NotContains(t, body, "gateway")
}
