package database

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/fenilmodi00/planillas-dashboard/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSQLStatements(t *testing.T) {
	statements := parseSQLStatements(schemaSQL)
	require.Len(t, statements, 2)
	assert.Contains(t, statements[0], "CREATE TABLE IF NOT EXISTS dashboard_sessions")
	assert.Contains(t, statements[1], "CREATE INDEX IF NOT EXISTS idx_dashboard_sessions_expires_at")

	assert.Equal(t, []string{"SELECT 1", "SELECT 2"}, parseSQLStatements("-- comment\nSELECT 1;\n\nSELECT\n2"))
}

// setupPostgresStore connects to TEST_DATABASE_URL and skips when it is not reachable
func setupPostgresStore(t *testing.T) *PostgresSessionStore {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping postgres session store tests - TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Skipf("Skipping postgres session store tests - database not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Skipf("Skipping postgres session store tests - database ping failed: %v", err)
	}

	require.NoError(t, Migrate(db))
	return NewPostgresSessionStore(db)
}

// setupRedisStore connects to TEST_REDIS_URI and skips when it is not reachable
func setupRedisStore(t *testing.T) *RedisSessionStore {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_URI")
	if addr == "" {
		t.Skip("Skipping redis session store tests - TEST_REDIS_URI not set")
	}

	client, err := ConnectRedis(context.Background(), addr)
	if err != nil {
		t.Skipf("Skipping redis session store tests - redis not available: %v", err)
	}

	store := NewRedisSessionStore(client)
	t.Cleanup(func() { store.Close() })
	return store
}

func testSession(expiresIn time.Duration) *models.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Session{
		ID:        uuid.NewString(),
		User:      models.User{ID: "1234567", Nombre: "Ana Gomez", IsAdmin: true},
		Token:     "token",
		CreatedAt: now,
		ExpiresAt: now.Add(expiresIn),
	}
}

// exerciseSessionStore checks the behaviour every SessionStore shares
func exerciseSessionStore(t *testing.T, store services.SessionStore) {
	ctx := context.Background()

	session := testSession(time.Hour)
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.User, got.User)
	assert.Nil(t, got.Alert)

	session.Alert = &models.Alert{Type: models.AlertSuccess, Title: "Planilla creada correctamente", ExpiresAt: time.Now().Add(5 * time.Second)}
	require.NoError(t, store.Save(ctx, session))

	got, err = store.Get(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Alert)
	assert.Equal(t, "Planilla creada correctamente", got.Alert.Title)

	require.NoError(t, store.Delete(ctx, session.ID))
	_, err = store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)

	_, err = store.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, services.ErrSessionNotFound)

	expired := testSession(-time.Minute)
	require.NoError(t, store.Save(ctx, expired))
	_, err = store.Get(ctx, expired.ID)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)

	_, err = store.Cleanup(ctx)
	assert.NoError(t, err)
}

func TestPostgresSessionStore(t *testing.T) {
	store := setupPostgresStore(t)
	exerciseSessionStore(t, store)

	ctx := context.Background()
	expired := testSession(-time.Minute)
	require.NoError(t, store.Save(ctx, expired))

	removed, err := store.Cleanup(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, removed, 1)
}

func TestRedisSessionStore(t *testing.T) {
	store := setupRedisStore(t)
	exerciseSessionStore(t, store)
}

func TestMemorySessionStoreSharesContract(t *testing.T) {
	exerciseSessionStore(t, services.NewMemorySessionStore(10))
}
