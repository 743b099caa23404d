package cache

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// Retry defaults: three attempts spaced 1s then 2s apart.
const (
	DefaultMaxAttempts uint = 3
	DefaultBaseDelay        = time.Second
	DefaultMaxDelay         = 30 * time.Second
)

// RetryConfig shapes the exponential backoff between fetch attempts.
type RetryConfig struct {
	// MaxAttempts is the total number of tries, first call included.
	// Zero means DefaultMaxAttempts.
	MaxAttempts uint

	// BaseDelay is the wait after the first failure; each further wait
	// doubles. Zero means DefaultBaseDelay.
	BaseDelay time.Duration

	// MaxDelay caps the wait between attempts. Zero means DefaultMaxDelay.
	MaxDelay time.Duration

	// Jitter randomizes each wait by ±Jitter fraction. Zero disables it,
	// which keeps retry timing predictable.
	Jitter float64
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = DefaultMaxDelay
	}
	if c.Jitter < 0 {
		c.Jitter = 0
	}
	return c
}

// Execute runs fetch until it succeeds or cfg.MaxAttempts is exhausted,
// doubling the delay between attempts from cfg.BaseDelay. All errors are
// retried alike; the terminal FetchError wraps the last attempt's error.
// A canceled context ends the retry loop early.
func Execute[T any](ctx context.Context, cfg RetryConfig, fetch FetchFunc[T], logger *zap.Logger) (T, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.BaseDelay
	b.Multiplier = 2
	b.RandomizationFactor = cfg.Jitter
	b.MaxInterval = cfg.MaxDelay

	attempts := 0
	operation := func() (T, error) {
		attempts++
		return fetch(ctx)
	}

	value, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(cfg.MaxAttempts),
		backoff.WithNotify(func(err error, delay time.Duration) {
			logger.Debug("Fetch attempt failed, backing off",
				zap.Int("attempt", attempts),
				zap.Duration("delay", delay),
				zap.Error(err))
		}),
	)
	if err != nil {
		var zero T
		return zero, &FetchError{Attempts: attempts, Err: err}
	}
	return value, nil
}
