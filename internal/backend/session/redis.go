package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisSessionStore keeps sessions server-side in redis; the client only ever
// holds the opaque session id in a cookie.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(address string, ttl time.Duration) (*RedisSessionStore, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %v", ttl)
	}
	client := redis.NewClient(&redis.Options{Addr: address})
	return &RedisSessionStore{client: client, ttl: ttl}, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	values, err := s.client.HGetAll(ctx, keyPrefix+id).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if len(values) == 0 {
		// HGetAll returns an empty map for unknown keys, not an error.
		return nil, nil
	}
	return &Session{
		IsAdmin:          values["admin"] == "1",
		HasVisitorAccess: values["visitor"] == "1",
	}, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, id string, session *Session) error {
	key := keyPrefix + id
	err := s.client.HSet(ctx, key,
		"admin", flagValue(session.IsAdmin),
		"visitor", flagValue(session.HasVisitorAccess),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session expiry: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

func flagValue(set bool) string {
	if set {
		return "1"
	}
	return "0"
}
