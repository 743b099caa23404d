package cache

import (
	"context"
	"time"
)

// Store is the swappable persistence backend for cache entries.
// Implementations must be safe for concurrent use.
//
// A missing key is reported as found=false with a nil error; errors are
// reserved for backend failures, which the orchestrator degrades to misses.
type Store interface {
	// Get returns the entry stored under key.
	Get(ctx context.Context, key string) (entry Entry, found bool, err error)

	// Set writes value under key, stamped with the current time.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key if present.
	Remove(ctx context.Context, key string) error

	// RemoveMatching deletes every key containing token as a substring
	// and reports how many were removed.
	RemoveMatching(ctx context.Context, token string) (int, error)

	// Clear drops every entry.
	Clear(ctx context.Context) error

	// Keys lists all stored keys.
	Keys(ctx context.Context) ([]string, error)
}

type storeOptions struct {
	now       func() time.Time
	namespace string
}

// StoreOption customizes a store implementation.
type StoreOption func(*storeOptions)

// WithStoreClock replaces the clock used to stamp writes, for tests.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(o *storeOptions) {
		o.now = now
	}
}

// WithNamespace changes the key prefix a PersistentStore claims in the
// underlying key-value store. MemoryStore ignores it.
func WithNamespace(namespace string) StoreOption {
	return func(o *storeOptions) {
		o.namespace = namespace
	}
}

func defaultStoreOptions() *storeOptions {
	return &storeOptions{
		now:       time.Now,
		namespace: DefaultNamespace,
	}
}
