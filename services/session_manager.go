package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionManager owns the session lifecycle on top of a SessionStore.
// A session invalidated once stays invalid: later saves for the same id are
// ignored so a late request cannot bring it back.
type SessionManager struct {
	store       SessionStore
	defaultTTL  time.Duration
	alertTTL    time.Duration
	invalidated sync.Map
	now         func() time.Time
	logger      *logrus.Entry
}

// NewSessionManager creates a manager. defaultTTL applies when the backend
// token has no readable exp claim.
func NewSessionManager(store SessionStore, defaultTTL, alertTTL time.Duration) *SessionManager {
	return &SessionManager{
		store:      store,
		defaultTTL: defaultTTL,
		alertTTL:   alertTTL,
		now:        time.Now,
		logger:     logrus.WithField("component", "SessionManager"),
	}
}

// Create starts a session for a freshly authenticated user
func (m *SessionManager) Create(ctx context.Context, user models.User, token string) (*models.Session, error) {
	now := m.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		User:      user,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: TokenExpiry(token, now, m.defaultTTL),
	}

	if err := m.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"is_admin":   user.IsAdmin,
		"expires_at": session.ExpiresAt,
	}).Info("Session created")

	return session, nil
}

// Lookup returns the live session for an id
func (m *SessionManager) Lookup(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	if _, gone := m.invalidated.Load(id); gone {
		return nil, ErrSessionNotFound
	}
	return m.store.Get(ctx, id)
}

// Invalidate clears a session. It returns true only for the call that
// actually cleared it; concurrent and later calls for the same id are no-ops.
func (m *SessionManager) Invalidate(ctx context.Context, id string) bool {
	if _, loaded := m.invalidated.LoadOrStore(id, m.now()); loaded {
		return false
	}

	if err := m.store.Delete(ctx, id); err != nil {
		m.logger.WithError(err).WithField("session_id", id).Error("Failed to delete invalidated session")
	}

	m.logger.WithField("session_id", id).Warn("Session invalidated")
	return true
}

// Save persists changes to a session unless it has been invalidated
func (m *SessionManager) Save(ctx context.Context, session *models.Session) error {
	if _, gone := m.invalidated.Load(session.ID); gone {
		return ErrSessionNotFound
	}
	return m.store.Save(ctx, session)
}

// SetAlert attaches a notice that expires after the alert TTL
func (m *SessionManager) SetAlert(ctx context.Context, session *models.Session, alertType models.AlertType, title, description string) error {
	session.Alert = &models.Alert{
		Type:        alertType,
		Title:       title,
		Description: description,
		ExpiresAt:   m.now().Add(m.alertTTL),
	}
	return m.Save(ctx, session)
}

// ActiveAlert returns the session's notice while it is still visible and
// drops it once expired.
func (m *SessionManager) ActiveAlert(ctx context.Context, session *models.Session) *models.Alert {
	if session.Alert == nil {
		return nil
	}
	if !session.Alert.Expired(m.now()) {
		return session.Alert
	}

	session.Alert = nil
	if err := m.Save(ctx, session); err != nil && !errors.Is(err, ErrSessionNotFound) {
		m.logger.WithError(err).Warn("Failed to clear expired alert")
	}
	return nil
}

// Cleanup sweeps expired sessions and forgets invalidations older than the session TTL
func (m *SessionManager) Cleanup(ctx context.Context) (int, error) {
	removed, err := m.store.Cleanup(ctx)
	if err != nil {
		return removed, fmt.Errorf("failed to clean up sessions: %w", err)
	}

	cutoff := m.now().Add(-m.defaultTTL)
	m.invalidated.Range(func(key, value any) bool {
		if at, ok := value.(time.Time); ok && at.Before(cutoff) {
			m.invalidated.Delete(key)
		}
		return true
	})

	return removed, nil
}

// TokenExpiry reads the exp claim of the backend token without verifying it;
// the backend remains the authority and answers 401 once the token is no
// longer accepted. Tokens without a future exp get the fallback lifetime.
func TokenExpiry(token string, now time.Time, fallback time.Duration) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return now.Add(fallback)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(now) {
		return now.Add(fallback)
	}
	return claims.ExpiresAt.Time
}
