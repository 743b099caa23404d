package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"hdfhr-backend/internal/cache"
	"hdfhr-backend/pkg/api"
)

// CacheHandler serves the /api/cache admin endpoints: stats, invalidation
// and warmup.
type CacheHandler struct {
	queries *cache.Service
	warmups []cache.WarmupQuery
	logger  *zap.Logger
}

// NewCacheHandler builds the cache admin handler. The warmup queries are
// fixed at startup and cover the screens the admin app opens first.
func NewCacheHandler(queries *cache.Service, warmups []cache.WarmupQuery, logger *zap.Logger) *CacheHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheHandler{queries: queries, warmups: warmups, logger: logger}
}

// Stats handles GET /api/cache/stats.
func (h *CacheHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := h.queries.Metrics()

	entries, err := h.queries.Len(r.Context())
	if err != nil {
		h.logger.Warn("Failed to count cache entries", zap.Error(err))
	}

	api.Success(w, http.StatusOK, api.CacheStatsResponse{
		Hits:              stats.Hits,
		Misses:            stats.Misses,
		Errors:            stats.Errors,
		TotalRequests:     stats.TotalRequests,
		AvgResponseTimeMs: stats.AvgResponseTimeMs,
		HitRate:           stats.HitRate(),
		Entries:           entries,
	})
}

// Invalidate handles POST /api/cache/invalidate.
func (h *CacheHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	var req api.InvalidateRequest
	if err := decode(r, &req); err != nil {
		api.FromError(w, err)
		return
	}

	removed, err := h.queries.Invalidate(r.Context(), req.Key)
	if err != nil {
		api.FromError(w, err)
		return
	}
	api.Success(w, http.StatusOK, api.InvalidateResponse{Removed: removed})
}

// Clear handles POST /api/cache/clear.
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.queries.InvalidateAll(r.Context()); err != nil {
		api.FromError(w, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

// ResetMetrics handles POST /api/cache/stats/reset.
func (h *CacheHandler) ResetMetrics(w http.ResponseWriter, r *http.Request) {
	h.queries.ResetMetrics()
	api.Success(w, http.StatusNoContent, nil)
}

// Warm handles POST /api/cache/warm. It blocks until the configured warmup
// queries finish.
func (h *CacheHandler) Warm(w http.ResponseWriter, r *http.Request) {
	h.queries.Warm(r.Context(), h.warmups)
	api.Success(w, http.StatusOK, map[string]int{"queries": len(h.warmups)})
}
