package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStateStore keeps JSON encoded state under a key prefix
type RedisStateStore[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStateStore creates a store. A zero ttl keeps values until deleted.
func NewRedisStateStore[T any](client *redis.Client, prefix string, ttl time.Duration) *RedisStateStore[T] {
	return &RedisStateStore[T]{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStateStore[T]) key(key string) string {
	return s.prefix + key
}

func (s *RedisStateStore[T]) Get(ctx context.Context, key string) (T, error) {
	var value T
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return value, ErrNotFound
		}
		return value, fmt.Errorf("failed to read state %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, fmt.Errorf("failed to decode state %s: %w", key, err)
	}
	return value, nil
}

func (s *RedisStateStore[T]) Put(ctx context.Context, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode state %s: %w", key, err)
	}
	return s.client.Set(ctx, s.key(key), raw, s.ttl).Err()
}

func (s *RedisStateStore[T]) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}
