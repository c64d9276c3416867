package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/fenilmodi00/planillas-dashboard/services"
	"github.com/fenilmodi00/planillas-dashboard/shared"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const sessionKeyPrefix = "planillas:session:"

// ConnectRedis opens a client for addr and verifies it with a ping
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	logrus.WithField("addr", addr).Info("Connected to redis successfully")
	return client, nil
}

// RedisSessionStore keeps sessions as JSON values that expire with the session
type RedisSessionStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, now: time.Now}
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, services.ErrSessionNotFound
	}
	if err != nil {
		return nil, shared.NewServiceError(shared.ErrorCategoryDatabase, "SESSION_READ_FAILED", "failed to read session", "RedisSessionStore", "Get", true, err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, shared.NewServiceError(shared.ErrorCategoryDatabase, "SESSION_CORRUPT", "failed to decode session", "RedisSessionStore", "Get", false, err)
	}
	if session.IsExpired(s.now()) {
		return nil, services.ErrSessionNotFound
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *models.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.Delete(ctx, session.ID)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+session.ID, data, ttl).Err(); err != nil {
		return shared.NewServiceError(shared.ErrorCategoryDatabase, "SESSION_WRITE_FAILED", "failed to save session", "RedisSessionStore", "Save", true, err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return shared.NewServiceError(shared.ErrorCategoryDatabase, "SESSION_DELETE_FAILED", "failed to delete session", "RedisSessionStore", "Delete", true, err)
	}
	return nil
}

// Cleanup has nothing to do: keys carry their own expiry
func (s *RedisSessionStore) Cleanup(context.Context) (int, error) {
	return 0, nil
}

func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}
