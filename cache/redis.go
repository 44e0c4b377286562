package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/skillsenselab/scribekit/redis"
)

// RedisStore is the shared persistent cache tier backed by Redis.
// All keys are prefixed so multiple scribekit deployments can share
// one Redis database.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore creates a persistent tier backed by the given client.
func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "scribekit"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) fullKey(key string) string {
	return s.keyPrefix + ":" + key
}

// Get retrieves a value. A missing key is a miss, not an error.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, s.fullKey(key))
	if err != nil {
		if redis.IsNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis tier get %q: %w", key, err)
	}
	return []byte(raw), true, nil
}

// Put stores a value with TTL. TTL of 0 means no expiration.
func (s *RedisStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.fullKey(key), string(value), ttl); err != nil {
		return fmt.Errorf("redis tier put %q: %w", key, err)
	}
	return nil
}

// Delete removes the key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.fullKey(key)); err != nil {
		return fmt.Errorf("redis tier delete %q: %w", key, err)
	}
	return nil
}

// compile-time interface check
var _ Store = (*RedisStore)(nil)
