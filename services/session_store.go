package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fenilmodi00/planillas-dashboard/models"
)

// ErrSessionNotFound is returned when a session id is unknown or expired
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists sessions by id. Implementations must treat expired
// sessions as missing.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
	// Cleanup removes expired sessions and returns how many were dropped
	Cleanup(ctx context.Context) (int, error)
	Close() error
}

// MemorySessionStore keeps sessions in process memory with expiry and a size cap
type MemorySessionStore struct {
	sessions map[string]*models.Session
	mutex    sync.RWMutex
	maxSize  int
	now      func() time.Time
}

// NewMemorySessionStore creates an in-memory store holding at most maxSize sessions
func NewMemorySessionStore(maxSize int) *MemorySessionStore {
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &MemorySessionStore{
		sessions: make(map[string]*models.Session),
		maxSize:  maxSize,
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*models.Session, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	session, exists := s.sessions[id]
	if !exists || session.IsExpired(s.now()) {
		return nil, ErrSessionNotFound
	}

	clone := *session
	if session.Alert != nil {
		alert := *session.Alert
		clone.Alert = &alert
	}
	return &clone, nil
}

func (s *MemorySessionStore) Save(_ context.Context, session *models.Session) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.sessions[session.ID]; !exists && len(s.sessions) >= s.maxSize {
		s.evictOldest()
	}

	stored := *session
	if session.Alert != nil {
		alert := *session.Alert
		stored.Alert = &alert
	}
	s.sessions[session.ID] = &stored
	return nil
}

// evictOldest drops the session closest to expiry
func (s *MemorySessionStore) evictOldest() {
	var oldestID string
	var oldestExpiry time.Time

	for id, session := range s.sessions {
		if oldestID == "" || session.ExpiresAt.Before(oldestExpiry) {
			oldestID = id
			oldestExpiry = session.ExpiresAt
		}
	}

	if oldestID != "" {
		delete(s.sessions, oldestID)
	}
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *MemorySessionStore) Cleanup(_ context.Context) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	removed := 0
	for id, session := range s.sessions {
		if session.IsExpired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Size returns the number of stored sessions, expired ones included
func (s *MemorySessionStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.sessions)
}

func (s *MemorySessionStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.sessions = make(map[string]*models.Session)
	return nil
}
