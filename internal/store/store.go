// Package store holds small per-key state such as saved filter criteria.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("state not found")

// StateStore persists one value of type T per key
type StateStore[T any] interface {
	Get(ctx context.Context, key string) (T, error)
	Put(ctx context.Context, key string, value T) error
	Delete(ctx context.Context, key string) error
}
