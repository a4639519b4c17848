package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a keyed store with per-entry expiry. The summary cache and
// the throttle counters share one instance: summaries use Get/Set,
// the throttle uses Incr.
type Store interface {
	// Get returns the value at key, with found=false on an absent or
	// expired entry.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set writes value at key with the given time-to-live.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Incr bumps the counter at key and returns the new count. The
	// first increment starts a fixed window of the given length, after
	// which the counter expires.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return count, nil
}
