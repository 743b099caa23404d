// Package di assembles the service object graph. The wiring lives in
// plain provider functions so the same graph can be built manually here
// or generated by wire from wire.go.
package di

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"hdfhr-backend/internal/cache"
	"hdfhr-backend/internal/config"
	"hdfhr-backend/internal/datasource"
	"hdfhr-backend/internal/observability"
)

// Container holds the long-lived parts of the service.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *observability.Collector
	Tracing  *observability.TracerProvider
	Queries  *cache.Service
	Upstream *datasource.Client
	Warmups  []cache.WarmupQuery
	Handler  http.Handler
}

// NewContainer wires the whole service from cfg.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	collector := ProvideCollector(cfg)

	var tracing *observability.TracerProvider
	if cfg.Observability.TracingEnabled {
		tracing, err = observability.InitTracing(ctx, observability.TracingConfig{
			ServiceName: cfg.Observability.ServiceName,
			Environment: string(cfg.Environment),
			Endpoint:    cfg.Observability.OTLPEndpoint,
		})
		if err != nil {
			return nil, err
		}
	}

	store, err := ProvideEntryStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	prober := ProvideProber(cfg, logger)
	queries := ProvideQueryCache(cfg, store, prober, collector, logger)

	upstream, err := ProvideUpstream(cfg, collector, logger)
	if err != nil {
		return nil, err
	}

	warmups := ProvideWarmups(upstream)
	handlerSet := ProvideHandlers(upstream, queries, warmups, logger)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Metrics:  collector,
		Tracing:  tracing,
		Queries:  queries,
		Upstream: upstream,
		Warmups:  warmups,
		Handler:  ProvideHTTPHandler(cfg, handlerSet, queries, collector, logger),
	}, nil
}

// ApplyConfig pushes reloaded runtime settings into the running cache.
func (c *Container) ApplyConfig(next *config.Config) {
	c.Queries.Tune(cache.Tuning{
		MaxEntries:       next.Cache.MaxEntries,
		DefaultTTL:       next.Cache.DefaultTTL.Std(),
		SweepProbability: next.Cache.SweepProbability,
		Retry: cache.RetryConfig{
			MaxAttempts: uint(next.Cache.Retry.MaxAttempts),
			BaseDelay:   next.Cache.Retry.BaseDelay.Std(),
			MaxDelay:    next.Cache.Retry.MaxDelay.Std(),
			Jitter:      next.Cache.Retry.Jitter,
		},
	})
}

// Shutdown flushes spans and the logger. Safe to call once at exit.
func (c *Container) Shutdown(ctx context.Context) error {
	var err error
	if c.Tracing != nil {
		err = c.Tracing.Shutdown(ctx)
	}
	_ = c.Logger.Sync()
	return err
}
