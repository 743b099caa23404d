package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// warmupConcurrency bounds how many warmup fetches run at once.
const warmupConcurrency = 4

// WarmupQuery is one entry to preload during Warm. Fetch returns the raw
// JSON payload the entry should hold.
type WarmupQuery struct {
	Key   string
	TTL   time.Duration
	Fetch FetchFunc[json.RawMessage]
}

// Warm primes the cache by fetching the given queries concurrently,
// refreshing entries that already exist. It is best effort: individual
// failures are logged and skipped.
func (s *Service) Warm(ctx context.Context, queries []WarmupQuery) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmupConcurrency)

	for _, q := range queries {
		q := q
		g.Go(func() error {
			result := ReadThrough(ctx, s, q.Key, q.Fetch, Options{
				TTL:          q.TTL,
				ForceRefresh: true,
			})
			if result.Err != nil {
				s.logger.Warn("Cache warmup fetch failed",
					zap.String("key", q.Key),
					zap.Error(result.Err))
			}
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()
	s.logger.Info("Cache warmup finished", zap.Int("queries", len(queries)))
}
