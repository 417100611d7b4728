package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateStore is the key-value contract the game orchestration needs:
// get, set-with-expiry, and an atomic set-if-absent for first-creation
// idempotency. Backed by Redis in production and by an in-memory fake
// in tests.
type StateStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
}

type redisStateStore struct {
	rdb *redis.Client
}

func NewRedisStateStore(rdb *redis.Client) StateStore {
	return &redisStateStore{rdb: rdb}
}

func (s *redisStateStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *redisStateStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *redisStateStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, key, value, ttl).Result()
}
