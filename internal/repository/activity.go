package repository

import (
	"context"

	"go.uber.org/zap"

	"hdfhr-backend/internal/cache"
	"hdfhr-backend/internal/domain"
)

// ActivityRepository serves the activity feed through the query cache with a
// short TTL. The feed is append-heavy and tolerates neither staleness nor
// offline fallback well, so reads fail fast while the network is down.
type ActivityRepository struct {
	source  ActivitySource
	queries *cache.Service
	logger  *zap.Logger
}

// NewActivityRepository builds a cached activity repository over source.
func NewActivityRepository(source ActivitySource, queries *cache.Service, logger *zap.Logger) *ActivityRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityRepository{source: source, queries: queries, logger: logger}
}

// List returns one page of activity log entries matching the query.
func (r *ActivityRepository) List(ctx context.Context, query ActivityQuery, refresh bool) ([]domain.ActivityLog, bool, error) {
	return read(ctx, r.queries, query.CacheKey(), activityTTL, false, refresh,
		func(ctx context.Context) ([]domain.ActivityLog, error) {
			return r.source.ListActivity(ctx, query)
		})
}

// Log appends an activity entry upstream and drops the cached feed pages it
// belongs to.
func (r *ActivityRepository) Log(ctx context.Context, entry domain.ActivityLog) (*domain.ActivityLog, error) {
	logged, err := r.source.LogActivity(ctx, entry)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, r.queries, r.logger,
		listPatterns(activityKeyspace, logged.CompanyID)...)
	return logged, nil
}
