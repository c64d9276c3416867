package database

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/fenilmodi00/planillas-dashboard/services"
	"github.com/fenilmodi00/planillas-dashboard/shared"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

//go:embed schema.sql
var schemaSQL string

var DB *sql.DB

// Connect establishes the database connection with the default pool settings
func Connect(dbURL string) error {
	config := shared.NewDefaultUnifiedConfiguration().Database
	return ConnectWithConfig(dbURL, &config)
}

// ConnectWithConfig establishes the database connection with custom pool settings
func ConnectWithConfig(dbURL string, config *shared.DatabaseConfig) error {
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres session backend")
	}

	var err error
	DB, err = sql.Open("postgres", dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	DB.SetMaxOpenConns(config.MaxOpenConns)
	DB.SetMaxIdleConns(config.MaxIdleConns)
	DB.SetConnMaxLifetime(config.ConnMaxLifetime)
	DB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), config.PingTimeout)
	defer cancel()

	if err = DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"max_open_conns":     config.MaxOpenConns,
		"max_idle_conns":     config.MaxIdleConns,
		"conn_max_lifetime":  config.ConnMaxLifetime,
		"conn_max_idle_time": config.ConnMaxIdleTime,
	}).Info("Connected to database successfully")

	return nil
}

func Close() {
	if DB != nil {
		DB.Close()
		logrus.Info("Database connection closed")
	}
}

// HealthCheck pings the database
func HealthCheck(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database connection not established")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	stats := DB.Stats()
	logrus.WithFields(logrus.Fields{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
	}).Debug("Database connection pool health check")

	return nil
}

// Migrate applies the embedded session schema. Statements are idempotent.
func Migrate(db *sql.DB) error {
	for _, stmt := range parseSQLStatements(schemaSQL) {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration statement failed: %w", err)
		}
	}

	logrus.Info("Database migration completed successfully")
	return nil
}

// parseSQLStatements splits SQL content into statements, skipping comment lines
func parseSQLStatements(content string) []string {
	var statements []string
	var currentStatement strings.Builder

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}

		if currentStatement.Len() > 0 {
			currentStatement.WriteString(" ")
		}
		currentStatement.WriteString(line)

		if strings.HasSuffix(line, ";") {
			if stmt := strings.TrimSpace(strings.TrimSuffix(currentStatement.String(), ";")); stmt != "" {
				statements = append(statements, stmt)
			}
			currentStatement.Reset()
		}
	}

	if stmt := strings.TrimSpace(currentStatement.String()); stmt != "" {
		statements = append(statements, stmt)
	}

	return statements
}

// PostgresSessionStore keeps sessions in the dashboard_sessions table
type PostgresSessionStore struct {
	db     *sql.DB
	logger *logrus.Entry
}

func NewPostgresSessionStore(db *sql.DB) *PostgresSessionStore {
	return &PostgresSessionStore{
		db:     db,
		logger: logrus.WithField("component", "PostgresSessionStore"),
	}
}

func (s *PostgresSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM dashboard_sessions WHERE id = $1 AND expires_at > NOW()`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.ErrSessionNotFound
	}
	if err != nil {
		return nil, shared.NewServiceError(shared.ErrorCategoryDatabase, "SESSION_READ_FAILED", "failed to read session", "PostgresSessionStore", "Get", true, err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, shared.NewServiceError(shared.ErrorCategoryDatabase, "SESSION_CORRUPT", "failed to decode session", "PostgresSessionStore", "Get", false, err)
	}
	return &session, nil
}

func (s *PostgresSessionStore) Save(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO dashboard_sessions (id, data, expires_at, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE
		SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at, updated_at = NOW()`,
		session.ID, data, session.ExpiresAt,
	)
	if err != nil {
		return shared.NewServiceError(shared.ErrorCategoryDatabase, "SESSION_WRITE_FAILED", "failed to save session", "PostgresSessionStore", "Save", true, err)
	}
	return nil
}

func (s *PostgresSessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM dashboard_sessions WHERE id = $1`, id); err != nil {
		return shared.NewServiceError(shared.ErrorCategoryDatabase, "SESSION_DELETE_FAILED", "failed to delete session", "PostgresSessionStore", "Delete", true, err)
	}
	return nil
}

func (s *PostgresSessionStore) Cleanup(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM dashboard_sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, shared.NewServiceError(shared.ErrorCategoryDatabase, "SESSION_CLEANUP_FAILED", "failed to remove expired sessions", "PostgresSessionStore", "Cleanup", true, err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		s.logger.WithError(err).Debug("RowsAffected unavailable after cleanup")
		return 0, nil
	}
	return int(removed), nil
}

// Close is a no-op; the connection pool is closed by Close at shutdown
func (s *PostgresSessionStore) Close() error {
	return nil
}
