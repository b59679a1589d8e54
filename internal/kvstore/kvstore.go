// Package kvstore is the durable key-value layer behind the month cache.
package kvstore

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("kvstore: closed")

// Store persists opaque values by key. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// ListKeys returns every key starting with prefix, in ascending order.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
