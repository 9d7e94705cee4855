package ratelimit

import (
	"context"
	"time"
)

// Counter — атомарный счётчик с временем жизни, см. cache.Cache.IncrWindow.
type Counter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RedisStore хранит счётчики в Redis, так что лимит общий для всех экземпляров сервиса.
type RedisStore struct {
	counter Counter
}

// NewRedisStore создаёт хранилище поверх counter.
func NewRedisStore(counter Counter) *RedisStore {
	return &RedisStore{counter: counter}
}

// Incr реализует Store.
func (s *RedisStore) Incr(ctx context.Context, key string, length time.Duration) (int64, error) {
	n, _, err := s.counter.IncrWindow(ctx, key, length)
	return n, err
}
