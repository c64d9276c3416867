package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/fenilmodi00/planillas-dashboard/shared"
	"github.com/stretchr/testify/require"
)

// countingStore records how many times sessions were deleted
type countingStore struct {
	*MemorySessionStore
	deletes atomic.Int32
}

func (s *countingStore) Delete(ctx context.Context, id string) error {
	s.deletes.Add(1)
	return s.MemorySessionStore.Delete(ctx, id)
}

type testBackend struct {
	server   *httptest.Server
	store    *countingStore
	sessions *SessionManager
	api      *APIClient
	metrics  *shared.HTTPMetrics
}

func newTestBackend(t *testing.T, handler http.HandlerFunc) *testBackend {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := &countingStore{MemorySessionStore: NewMemorySessionStore(100)}
	sessions := NewSessionManager(store, time.Hour, 5*time.Second)
	metrics := shared.NewHTTPMetrics()
	api := NewAPIClient(shared.GatewayConfig{BaseURL: server.URL}, shared.NewHTTPClientFactory(5*time.Second), sessions, metrics)

	return &testBackend{
		server:   server,
		store:    store,
		sessions: sessions,
		api:      api,
		metrics:  metrics,
	}
}

func (b *testBackend) login(t *testing.T, user models.User) *models.Session {
	t.Helper()
	session, err := b.sessions.Create(context.Background(), user, "token-"+user.ID)
	require.NoError(t, err)
	return session
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func jsonDecode(r io.Reader, out any) error {
	return json.NewDecoder(r).Decode(out)
}
