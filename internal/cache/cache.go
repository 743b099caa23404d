package cache

import (
	"context"
	"encoding/json"
	"math"
	"math/rand"
	"reflect"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Service owns one logical cache: a backing store, a network prober, the
// retry policy and metrics. Typed reads go through the package-level
// ReadThrough function; invalidation, warmup and stats hang off the Service.
type Service struct {
	store Store

	// mu guards the tunable fields, which the config watcher may change
	// at runtime via Tune.
	mu               sync.RWMutex
	maxEntries       int
	defaultTTL       time.Duration
	sweepProbability float64
	retry            RetryConfig

	prober  Prober
	metrics *Aggregator
	sink    MetricsSink
	logger  *zap.Logger
	tracer  trace.Tracer
	now     func() time.Time
	randFn  func() float64
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProber wires a network prober. Without one the service assumes the
// network is always available.
func WithProber(prober Prober) Option {
	return func(s *Service) {
		if prober != nil {
			s.prober = prober
		}
	}
}

// WithMetricsSink mirrors cache activity into an external metrics system.
func WithMetricsSink(sink MetricsSink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRandom replaces the random source behind sweep decisions, for tests.
func WithRandom(randFn func() float64) Option {
	return func(s *Service) {
		if randFn != nil {
			s.randFn = randFn
		}
	}
}

// WithTracer replaces the OpenTelemetry tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// New builds a Service over store.
func New(store Store, cfg Config, opts ...Option) *Service {
	cfg = cfg.withDefaults()

	s := &Service{
		store:            store,
		maxEntries:       cfg.MaxEntries,
		defaultTTL:       cfg.DefaultTTL,
		sweepProbability: cfg.SweepProbability,
		retry:            cfg.Retry,
		prober:           StaticProber(true),
		metrics:          NewAggregator(),
		sink:             noopSink{},
		logger:           zap.NewNop(),
		now:              time.Now,
		randFn:           rand.Float64,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("hdfhr-backend/cache")
	}
	return s
}

// ReadThrough serves key from the cache when a fresh entry exists, and
// otherwise fetches, caches and returns the new value. While the network is
// down, reads marked CriticalData fall back to an expired entry (advisory
// ErrStaleData alongside the value); everything else fails fast with
// ErrNetworkUnavailable. Nil fetched values are returned but never cached.
//
// Concurrent reads of the same key each run their own fetch and the last
// write wins. Callers that need request coalescing add it above this layer.
func ReadThrough[T any](ctx context.Context, s *Service, key string, fetch FetchFunc[T], opts Options) Result[T] {
	start := s.now()
	ctx, span := s.tracer.Start(ctx, "cache.read_through",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	s.maybeSweep(ctx)

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = s.DefaultTTL()
	}

	// Fast path: a fresh, decodable entry.
	if !opts.ForceRefresh {
		if entry, found := s.lookup(ctx, key); found && !entry.Expired(start, ttl) {
			var value T
			if err := json.Unmarshal(entry.Value, &value); err == nil {
				s.observe(span, start, OutcomeHit, false, true)
				return Result[T]{Value: value, FromCache: true}
			}
			s.logger.Warn("Ignoring undecodable cache entry",
				zap.String("key", key))
		}
	}

	if !s.prober.IsAvailable(ctx) {
		// Degraded mode: critical reads may serve expired data.
		if opts.CriticalData {
			if entry, found := s.lookup(ctx, key); found {
				var value T
				if err := json.Unmarshal(entry.Value, &value); err == nil {
					age := entry.Age(start)
					s.logger.Info("Network unavailable, serving stale entry",
						zap.String("key", key),
						zap.Duration("age", age))
					s.observe(span, start, OutcomeMiss, false, true)
					return Result[T]{Value: value, FromCache: true, Err: &StaleError{Age: age}}
				}
			}
		}
		s.observe(span, start, OutcomeMiss, true, false)
		return Result[T]{Err: ErrNetworkUnavailable}
	}

	value, err := Execute(ctx, s.Retry(), fetch, s.logger)
	if err != nil {
		span.RecordError(err)
		s.observe(span, start, OutcomeMiss, true, false)
		return Result[T]{Err: err}
	}

	if !isNilValue(value) {
		if data, err := json.Marshal(value); err != nil {
			s.logger.Warn("Not caching unencodable value",
				zap.String("key", key),
				zap.Error(err))
		} else if err := s.store.Set(ctx, key, data); err != nil {
			s.logger.Warn("Cache write failed",
				zap.String("key", key),
				zap.Error(err))
		}
	}
	s.observe(span, start, OutcomeMiss, false, false)
	return Result[T]{Value: value}
}

// lookup reads the store, degrading backend errors to a miss.
func (s *Service) lookup(ctx context.Context, key string) (Entry, bool) {
	entry, found, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Cache read failed, treating as miss",
			zap.String("key", key),
			zap.Error(err))
		return Entry{}, false
	}
	return entry, found
}

// observe folds one finished read into the aggregator, the sink and the span.
func (s *Service) observe(span trace.Span, start time.Time, outcome Outcome, isError, fromCache bool) {
	elapsed := s.now().Sub(start)
	s.metrics.Record(outcome, elapsed, isError)

	s.sink.ObserveReadDuration(elapsed)
	switch {
	case isError:
		s.sink.CacheError()
	case outcome == OutcomeHit:
		s.sink.CacheHit()
	default:
		s.sink.CacheMiss()
	}

	span.SetAttributes(
		attribute.Bool("cache.hit", outcome == OutcomeHit),
		attribute.Bool("cache.from_cache", fromCache),
		attribute.Bool("cache.error", isError),
	)
}

// maybeSweep runs the eviction sweep with the configured probability, so
// the cost is amortized across reads instead of a background goroutine.
func (s *Service) maybeSweep(ctx context.Context) {
	if s.randFn() >= s.SweepProbability() {
		return
	}
	if evicted, err := s.Sweep(ctx); err != nil {
		s.logger.Warn("Cache sweep failed", zap.Error(err))
	} else if evicted > 0 {
		s.logger.Debug("Cache sweep evicted entries", zap.Int("count", evicted))
	}
}

// Sweep evicts the oldest entries once the store holds more than MaxEntries:
// at least 20% of the current size, and always enough to get back under the
// cap. Entries that cannot be read or decoded sort as oldest and go first.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	keys, err := s.store.Keys(ctx)
	if err != nil {
		return 0, err
	}

	size := len(keys)
	if size <= s.MaxEntries() {
		return 0, nil
	}

	type aged struct {
		key       string
		writtenAt time.Time
	}
	entries := make([]aged, 0, size)
	for _, key := range keys {
		var writtenAt time.Time
		if entry, found, err := s.store.Get(ctx, key); err == nil && found {
			writtenAt = entry.WrittenAt
		}
		entries = append(entries, aged{key: key, writtenAt: writtenAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].writtenAt.Before(entries[j].writtenAt)
	})

	drop := int(math.Ceil(0.2 * float64(size)))
	if over := size - s.MaxEntries(); over > drop {
		drop = over
	}

	evicted := 0
	for _, entry := range entries[:drop] {
		if err := s.store.Remove(ctx, entry.key); err != nil {
			s.logger.Warn("Failed to evict entry",
				zap.String("key", entry.key),
				zap.Error(err))
			continue
		}
		evicted++
	}
	s.sink.CacheEvictions(evicted)
	return evicted, nil
}

// Invalidate removes the exact key, or every key containing the prefix when
// the pattern ends in Wildcard. It returns the number of keys targeted.
func (s *Service) Invalidate(ctx context.Context, pattern string) (int, error) {
	token, wildcard := splitPattern(pattern)
	if wildcard {
		removed, err := s.store.RemoveMatching(ctx, token)
		if err != nil {
			return 0, err
		}
		s.logger.Debug("Invalidated cache entries",
			zap.String("pattern", pattern),
			zap.Int("count", removed))
		return removed, nil
	}

	if err := s.store.Remove(ctx, pattern); err != nil {
		return 0, err
	}
	s.logger.Debug("Invalidated cache entry", zap.String("key", pattern))
	return 1, nil
}

// InvalidateAll drops every cached entry.
func (s *Service) InvalidateAll(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("Cleared cache")
	return nil
}

// Metrics returns a snapshot of the hit/miss/error counters.
func (s *Service) Metrics() Stats {
	return s.metrics.Snapshot()
}

// ResetMetrics zeroes the counters, typically from the admin API.
func (s *Service) ResetMetrics() {
	s.metrics.Reset()
}

// Len reports how many entries the store currently holds.
func (s *Service) Len(ctx context.Context) (int, error) {
	keys, err := s.store.Keys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Tuning is the subset of configuration that can change at runtime,
// typically pushed by the config file watcher.
type Tuning struct {
	MaxEntries       int
	DefaultTTL       time.Duration
	SweepProbability float64
	Retry            RetryConfig
}

// Tune applies new runtime settings. Zero fields keep their current value.
func (s *Service) Tune(t Tuning) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.MaxEntries > 0 {
		s.maxEntries = t.MaxEntries
	}
	if t.DefaultTTL > 0 {
		s.defaultTTL = t.DefaultTTL
	}
	if t.SweepProbability > 0 && t.SweepProbability <= 1 {
		s.sweepProbability = t.SweepProbability
	}
	if t.Retry.MaxAttempts > 0 {
		s.retry.MaxAttempts = t.Retry.MaxAttempts
	}
	if t.Retry.BaseDelay > 0 {
		s.retry.BaseDelay = t.Retry.BaseDelay
	}
	if t.Retry.MaxDelay > 0 {
		s.retry.MaxDelay = t.Retry.MaxDelay
	}
	if t.Retry.Jitter > 0 {
		s.retry.Jitter = t.Retry.Jitter
	}

	s.logger.Info("Applied cache tuning",
		zap.Int("max_entries", s.maxEntries),
		zap.Duration("default_ttl", s.defaultTTL),
		zap.Float64("sweep_probability", s.sweepProbability),
		zap.Uint("retry_attempts", uint(s.retry.MaxAttempts)))
}

// MaxEntries returns the current size threshold for sweeps.
func (s *Service) MaxEntries() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxEntries
}

// DefaultTTL returns the TTL applied to reads without an explicit one.
func (s *Service) DefaultTTL() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultTTL
}

// SweepProbability returns the per-read sweep chance.
func (s *Service) SweepProbability() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sweepProbability
}

// Retry returns the current retry policy.
func (s *Service) Retry() RetryConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.retry
}

// isNilValue reports whether a fetched value is a typed or untyped nil.
// Nil results are never cached, so a later read repeats the fetch.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
