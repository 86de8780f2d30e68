package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"creditrisk/pkg/platform/sentinel"
)

// RedisClient is the subset of *redis.Client the store uses.
type RedisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore persists results in Redis with TTL-based eviction.
type RedisStore struct {
	client RedisClient
	ttl    time.Duration
}

// NewRedisStore constructs a Redis-backed result store. A non-positive ttl
// means DefaultTTL.
func NewRedisStore(client RedisClient, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("redis client required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Save writes data under id with the store TTL.
//
// Side effects: performs a Redis SET with EX; overwrites any existing entry.
func (s *RedisStore) Save(ctx context.Context, id string, data []byte) error {
	if err := s.client.Set(ctx, resultKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save batch result: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// Load reads the result stored under id.
//
// Errors: sentinel.ErrNotFound on a miss; sentinel.ErrUnavailable wrapping
// any Redis failure.
func (s *RedisStore) Load(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, resultKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("load batch result: %w: %w", sentinel.ErrUnavailable, err)
	}
	return data, nil
}

var (
	_ ResultStore = (*RedisStore)(nil)
	_ ResultStore = (*MemoryStore)(nil)
	_ RedisClient = (*redis.Client)(nil)
)
