package cache

import (
	"context"
	"errors"
	"time"
)

// Defaults match the behavior the admin app was tuned with.
const (
	DefaultTTL              = 5 * time.Minute
	DefaultMaxEntries       = 100
	DefaultSweepProbability = 0.1
	DefaultProbeTimeout     = 3 * time.Second
)

// Options control a single read. The zero value means: default TTL, serve
// a fresh cached entry when present, and fail fast while offline.
type Options struct {
	// TTL overrides the service default for this read only.
	TTL time.Duration

	// ForceRefresh skips the fresh-entry fast path and always fetches.
	ForceRefresh bool

	// CriticalData allows serving an expired entry when the network is
	// down, instead of failing the read.
	CriticalData bool
}

// FetchFunc loads the authoritative value for a key on a cache miss.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Result is the outcome of a read-through.
type Result[T any] struct {
	// Value is usable when Err is nil or advisory (see Stale).
	Value T

	// FromCache is true when Value came from the store rather than a fetch.
	FromCache bool

	// Err is the terminal or advisory error for this read.
	Err error
}

// Stale reports whether the result carries data that outlived its TTL.
func (r Result[T]) Stale() bool {
	return errors.Is(r.Err, ErrStaleData)
}

// Ok reports whether Value can be shown to the user.
func (r Result[T]) Ok() bool {
	return r.Err == nil || r.Stale()
}

// Config tunes a Service at construction time.
type Config struct {
	// MaxEntries is the size threshold above which sweeps evict.
	// Zero means DefaultMaxEntries.
	MaxEntries int

	// DefaultTTL applies to reads whose Options carry no TTL.
	// Zero means DefaultTTL.
	DefaultTTL time.Duration

	// SweepProbability is the chance (0,1] that a read triggers an
	// eviction sweep. Zero means DefaultSweepProbability.
	SweepProbability float64

	// Retry shapes the backoff between fetch attempts.
	Retry RetryConfig
}

func (c Config) withDefaults() Config {
	if c.MaxEntries <= 0 {
		c.MaxEntries = DefaultMaxEntries
	}
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = DefaultTTL
	}
	if c.SweepProbability <= 0 || c.SweepProbability > 1 {
		c.SweepProbability = DefaultSweepProbability
	}
	c.Retry = c.Retry.withDefaults()
	return c
}
