// Package metadata is the local key/value table behind the console's
// durable storage (session tokens and UI preferences).
package metadata

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get for a key that was never set or was deleted.
var ErrNotFound = errors.New("metadata key not found")

// Record is one stored value with its last write time.
type Record struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]Record, error)
}
