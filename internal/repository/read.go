package repository

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hdfhr-backend/internal/cache"
)

// Per-keyspace freshness windows. Companies, employees and tasks keep the
// admin screens usable offline, so those reads may serve expired entries;
// receipts and activity fail fast instead.
const (
	companyTTL  = 5 * time.Minute
	employeeTTL = 5 * time.Minute
	taskTTL     = 2 * time.Minute
	receiptTTL  = 10 * time.Minute
	activityTTL = time.Minute
)

// read runs one read-through and flattens the result into the
// (value, fromCache, err) shape the handlers consume. The returned error can
// be advisory: errors.Is(err, cache.ErrStaleData) with a usable value.
func read[T any](ctx context.Context, queries *cache.Service, key string, ttl time.Duration, critical, refresh bool, fetch cache.FetchFunc[T]) (T, bool, error) {
	res := cache.ReadThrough(ctx, queries, key, fetch, cache.Options{
		TTL:          ttl,
		ForceRefresh: refresh,
		CriticalData: critical,
	})
	if !res.Ok() {
		var zero T
		return zero, false, res.Err
	}
	return res.Value, res.FromCache, res.Err
}

// invalidate drops the given keys and patterns. Failures are logged, not
// returned: the write already succeeded upstream.
func invalidate(ctx context.Context, queries *cache.Service, logger *zap.Logger, patterns ...string) {
	for _, pattern := range patterns {
		if _, err := queries.Invalidate(ctx, pattern); err != nil {
			logger.Warn("Cache invalidation failed",
				zap.String("pattern", pattern),
				zap.Error(err))
		}
	}
}

// listPatterns covers every cached list a record scoped to companyID can
// appear in: the company's own lists and the unscoped ones.
func listPatterns(keyspace, companyID string) []string {
	patterns := []string{cache.Key(keyspace, "list", scopeAll) + cache.Wildcard}
	if companyID != "" {
		patterns = append(patterns, cache.Key(keyspace, "list", companyID)+cache.Wildcard)
	}
	return patterns
}
