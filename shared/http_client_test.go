package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientFactoryCachesByTimeout(t *testing.T) {
	factory := NewHTTPClientFactory(5 * time.Second)

	first := factory.CreateHTTPClient(2 * time.Second)
	assert.Same(t, first, factory.CreateHTTPClient(2*time.Second))
	assert.NotSame(t, first, factory.CreateHTTPClient(3*time.Second))
	assert.Equal(t, 5*time.Second, factory.CreateHTTPClient(0).Timeout)

	factory.CleanupAllClients()
	assert.NotSame(t, first, factory.CreateHTTPClient(2*time.Second))
}

func TestExecuteHTTPRequestWithRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	metrics := NewHTTPMetrics()
	request, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	response, err := ExecuteHTTPRequestWithRetry(server.Client(), request, 2, metrics)
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, int64(2), metrics.StatusCount(http.StatusBadGateway))
	assert.Equal(t, int64(2), metrics.RetryAttempts)
}

func TestExecuteHTTPRequestReturnsFinalServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	request, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	response, err := ExecuteHTTPRequestWithRetry(server.Client(), request, 0, nil)
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
}

func TestExecuteHTTPRequestStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://127.0.0.1:1", nil)
	require.NoError(t, err)

	_, err = ExecuteHTTPRequestWithRetry(http.DefaultClient, request, 3, nil)
	assert.Error(t, err)
}
