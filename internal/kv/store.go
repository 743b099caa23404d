// Package kv defines the durable key-value boundary the persistent cache
// store is built on, plus a file-backed implementation.
package kv

import "context"

// Store is a minimal string key-value store. Implementations must be safe
// for concurrent use. A missing key is reported via the bool, not an error.
type Store interface {
	// GetString returns the value for key, or found=false when absent.
	GetString(ctx context.Context, key string) (value string, found bool, err error)

	// SetString writes or replaces the value for key.
	SetString(ctx context.Context, key, value string) error

	// RemoveKeys deletes the given keys. Missing keys are not an error.
	RemoveKeys(ctx context.Context, keys []string) error

	// ListKeys returns every key currently stored.
	ListKeys(ctx context.Context) ([]string, error)
}
