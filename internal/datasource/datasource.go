// Package datasource talks to the hosted Postgres API that owns the HR
// data. Every request runs through a circuit breaker so a flapping upstream
// fails fast instead of holding readers, and call outcomes are mirrored
// into metrics.
package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	apperrors "hdfhr-backend/pkg/errors"
)

// Config locates the upstream project.
type Config struct {
	URL     string
	APIKey  string
	Schema  string
	Breaker BreakerConfig
}

// Recorder mirrors upstream call outcomes into a metrics system.
type Recorder interface {
	RecordUpstream(operation string, err error, elapsed time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) RecordUpstream(string, error, time.Duration) {}

// Client wraps the Supabase client with a circuit breaker and uniform
// error mapping.
type Client struct {
	sb       *supabase.Client
	breaker  *gobreaker.CircuitBreaker
	recorder Recorder
	logger   *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithRecorder wires upstream call metrics.
func WithRecorder(recorder Recorder) Option {
	return func(c *Client) {
		if recorder != nil {
			c.recorder = recorder
		}
	}
}

// New connects to the project described by cfg.
func New(cfg Config, logger *zap.Logger, opts ...Option) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var clientOpts *supabase.ClientOptions
	if cfg.Schema != "" {
		clientOpts = &supabase.ClientOptions{Schema: cfg.Schema}
	}
	sb, err := supabase.NewClient(cfg.URL, cfg.APIKey, clientOpts)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create upstream client")
	}

	c := &Client{
		sb:       sb,
		breaker:  newBreaker(cfg.Breaker.withDefaults(), logger),
		recorder: noopRecorder{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// call funnels one upstream request through the breaker, the recorder and
// the error taxonomy. Open-circuit rejections map to UNAVAILABLE so callers
// can tell them apart from upstream failures.
func (c *Client) call(ctx context.Context, operation string, fn func() ([]byte, error)) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := c.breaker.Execute(func() (any, error) {
		return fn()
	})
	c.recorder.RecordUpstream(operation, err, time.Since(start))

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, apperrors.NewUnavailable("upstream circuit open", err)
		}
		c.logger.Warn("Upstream request failed",
			zap.String("operation", operation),
			zap.Error(err))
		return nil, apperrors.NewExternal("upstream request failed: "+operation, err)
	}

	data, _ := out.([]byte)
	return data, nil
}
