package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_SucceedsFirstTry(t *testing.T) {
	attempts := 0
	fetch := func(context.Context) (string, error) {
		attempts++
		return "payload", nil
	}

	value, err := Execute(context.Background(), fastRetry, fetch, nil)

	require.NoError(t, err)
	assert.Equal(t, "payload", value)
	assert.Equal(t, 1, attempts)
}

func TestExecute_RetriesUntilSuccess(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, BaseDelay: 20 * time.Millisecond}

	attempts := 0
	fetch := func(context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient")
		}
		return "payload", nil
	}

	start := time.Now()
	value, err := Execute(context.Background(), cfg, fetch, nil)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, "payload", value)
	assert.Equal(t, 3, attempts)

	// Two waits happened: BaseDelay, then twice BaseDelay.
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
}

func TestExecute_ExhaustsAttempts(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond}

	attempts := 0
	cause := errors.New("upstream down")
	fetch := func(context.Context) (string, error) {
		attempts++
		return "", cause
	}

	_, err := Execute(context.Background(), cfg, fetch, nil)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 3, fetchErr.Attempts)
	assert.Equal(t, 3, attempts)
	assert.ErrorIs(t, err, cause)
}

func TestExecute_ContextCancelStopsRetrying(t *testing.T) {
	// The first backoff wait is far longer than the context budget, so a
	// second attempt never happens.
	cfg := RetryConfig{MaxAttempts: 3, BaseDelay: time.Second}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	attempts := 0
	fetch := func(context.Context) (string, error) {
		attempts++
		return "", errors.New("transient")
	}

	_, err := Execute(ctx, cfg, fetch, nil)

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryConfig_Defaults(t *testing.T) {
	cfg := RetryConfig{}.withDefaults()

	assert.Equal(t, DefaultMaxAttempts, cfg.MaxAttempts)
	assert.Equal(t, DefaultBaseDelay, cfg.BaseDelay)
	assert.Equal(t, DefaultMaxDelay, cfg.MaxDelay)
	assert.Zero(t, cfg.Jitter)
}
