package di

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"hdfhr-backend/internal/cache"
	"hdfhr-backend/internal/config"
	"hdfhr-backend/internal/datasource"
	"hdfhr-backend/internal/handlers"
	"hdfhr-backend/internal/kv"
	"hdfhr-backend/internal/observability"
	"hdfhr-backend/internal/repository"
)

// ProvideLogger builds the service logger from the logging configuration.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Logging.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	zapCfg.Level = level

	return zapCfg.Build()
}

// ProvideCollector builds the Prometheus collector, or nil when metrics are
// disabled. Downstream providers treat a nil collector as "no metrics".
func ProvideCollector(cfg *config.Config) *observability.Collector {
	if !cfg.Observability.MetricsEnabled {
		return nil
	}
	return observability.NewCollector("hdfhr")
}

// ProvideEntryStore picks the cache backend: a durable file-backed store by
// default, or the process-memory table when configured in-memory.
func ProvideEntryStore(cfg *config.Config, logger *zap.Logger) (cache.Store, error) {
	if cfg.Cache.InMemory {
		return cache.NewMemoryStore(), nil
	}

	files, err := kv.NewFileStore(cfg.Cache.Dir, kv.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache directory: %w", err)
	}
	return cache.NewPersistentStore(files), nil
}

// ProvideProber wires the network prober against the upstream health
// endpoint, falling back to the project URL itself when none is set.
func ProvideProber(cfg *config.Config, logger *zap.Logger) cache.Prober {
	endpoint := cfg.Upstream.HealthEndpoint
	if endpoint == "" {
		endpoint = cfg.Upstream.URL
	}
	checker := datasource.NewHTTPChecker(endpoint, nil)
	return cache.NewNetworkProber(checker, cfg.Cache.ProbeTimeout.Std(), logger)
}

// ProvideQueryCache assembles the query cache service.
func ProvideQueryCache(cfg *config.Config, store cache.Store, prober cache.Prober, collector *observability.Collector, logger *zap.Logger) *cache.Service {
	opts := []cache.Option{
		cache.WithLogger(logger.Named("cache")),
		cache.WithProber(prober),
	}
	if collector != nil {
		opts = append(opts, cache.WithMetricsSink(collector))
	}

	return cache.New(store, cache.Config{
		MaxEntries:       cfg.Cache.MaxEntries,
		DefaultTTL:       cfg.Cache.DefaultTTL.Std(),
		SweepProbability: cfg.Cache.SweepProbability,
		Retry: cache.RetryConfig{
			MaxAttempts: uint(cfg.Cache.Retry.MaxAttempts),
			BaseDelay:   cfg.Cache.Retry.BaseDelay.Std(),
			MaxDelay:    cfg.Cache.Retry.MaxDelay.Std(),
			Jitter:      cfg.Cache.Retry.Jitter,
		},
	}, opts...)
}

// ProvideUpstream connects the hosted Postgres API client.
func ProvideUpstream(cfg *config.Config, collector *observability.Collector, logger *zap.Logger) (*datasource.Client, error) {
	var opts []datasource.Option
	if collector != nil {
		opts = append(opts, datasource.WithRecorder(collector))
	}

	return datasource.New(datasource.Config{
		URL:    cfg.Upstream.URL,
		APIKey: cfg.Upstream.APIKey,
		Schema: cfg.Upstream.Schema,
		Breaker: datasource.BreakerConfig{
			MaxRequests:      cfg.Upstream.Breaker.MaxRequests,
			Interval:         cfg.Upstream.Breaker.Interval.Std(),
			Timeout:          cfg.Upstream.Breaker.Timeout.Std(),
			FailureThreshold: cfg.Upstream.Breaker.FailureThreshold,
			MinRequests:      cfg.Upstream.Breaker.MinRequests,
		},
	}, logger.Named("upstream"), opts...)
}

// ProvideWarmups lists the queries worth preloading: the first page of each
// list screen the app lands on.
func ProvideWarmups(upstream *datasource.Client) []cache.WarmupQuery {
	firstPage := repository.Page{Number: 1, Size: repository.DefaultPageSize}

	companyQuery := repository.CompanyQuery{Page: firstPage}
	employeeQuery := repository.EmployeeQuery{Page: firstPage}
	taskQuery := repository.TaskQuery{Page: firstPage}

	return []cache.WarmupQuery{
		{
			Key: companyQuery.CacheKey(),
			Fetch: func(ctx context.Context) (json.RawMessage, error) {
				companies, err := upstream.ListCompanies(ctx, companyQuery)
				if err != nil {
					return nil, err
				}
				return json.Marshal(companies)
			},
		},
		{
			Key: employeeQuery.CacheKey(),
			Fetch: func(ctx context.Context) (json.RawMessage, error) {
				employees, err := upstream.ListEmployees(ctx, employeeQuery)
				if err != nil {
					return nil, err
				}
				return json.Marshal(employees)
			},
		},
		{
			Key: taskQuery.CacheKey(),
			Fetch: func(ctx context.Context) (json.RawMessage, error) {
				tasks, err := upstream.ListTasks(ctx, taskQuery)
				if err != nil {
					return nil, err
				}
				return json.Marshal(tasks)
			},
		},
	}
}

// ProvideHandlers builds the cached repositories and their HTTP handlers.
func ProvideHandlers(upstream *datasource.Client, queries *cache.Service, warmups []cache.WarmupQuery, logger *zap.Logger) handlers.Handlers {
	return handlers.Handlers{
		Companies: handlers.NewCompanyHandler(repository.NewCompanyRepository(upstream, queries, logger), logger),
		Employees: handlers.NewEmployeeHandler(repository.NewEmployeeRepository(upstream, queries, logger), logger),
		Tasks:     handlers.NewTaskHandler(repository.NewTaskRepository(upstream, queries, logger), logger),
		Receipts:  handlers.NewReceiptHandler(repository.NewReceiptRepository(upstream, queries, logger), logger),
		Activity:  handlers.NewActivityHandler(repository.NewActivityRepository(upstream, queries, logger), logger),
		Cache:     handlers.NewCacheHandler(queries, warmups, logger),
	}
}

// ProvideHTTPHandler assembles the router and its middleware stack.
func ProvideHTTPHandler(cfg *config.Config, h handlers.Handlers, queries *cache.Service, collector *observability.Collector, logger *zap.Logger) http.Handler {
	opts := []handlers.RouterOption{
		handlers.WithRequestTimeout(cfg.Server.RequestTimeout.Std()),
		handlers.WithAllowedOrigins(cfg.Server.AllowedOrigins),
	}
	if collector != nil {
		opts = append(opts,
			handlers.WithInstrumentation(observability.Middleware(collector)),
			handlers.WithMetricsEndpoint(cfg.Observability.MetricsPath, collector.Handler()))
	}

	return handlers.NewRouter(h, queries, logger, opts...).Setup()
}
