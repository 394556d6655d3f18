package store

import (
	"context"
	"sync"
)

// MemoryStateStore keeps state in process. Used when Redis is not configured
// and in tests.
type MemoryStateStore[T any] struct {
	mu     sync.RWMutex
	values map[string]T
}

func NewMemoryStateStore[T any]() *MemoryStateStore[T] {
	return &MemoryStateStore[T]{values: make(map[string]T)}
}

func (s *MemoryStateStore[T]) Get(_ context.Context, key string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return value, nil
}

func (s *MemoryStateStore[T]) Put(_ context.Context, key string, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStateStore[T]) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
