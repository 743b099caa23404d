package observability_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hdfhr-backend/internal/observability"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCollector_RecordsCacheActivity verifies the cache sink methods land in
// the right counters.
func TestCollector_RecordsCacheActivity(t *testing.T) {
	// Arrange
	collector := observability.NewCollector("test")

	// Act
	collector.CacheHit()
	collector.CacheHit()
	collector.CacheMiss()
	collector.CacheError()
	collector.CacheEvictions(3)
	collector.ObserveReadDuration(50 * time.Millisecond)

	// Assert
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.CacheHitsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.CacheMissesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.CacheErrorsTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(collector.CacheEvicted))
	assert.Equal(t, 1, testutil.CollectAndCount(collector.CacheReadSeconds))
}

// TestCollector_RecordsUpstreamOutcomes verifies calls split by status label.
func TestCollector_RecordsUpstreamOutcomes(t *testing.T) {
	// Arrange
	collector := observability.NewCollector("test")

	// Act
	collector.RecordUpstream("tasks.list", nil, 10*time.Millisecond)
	collector.RecordUpstream("tasks.list", nil, 12*time.Millisecond)
	collector.RecordUpstream("tasks.list", errors.New("boom"), 8*time.Millisecond)

	// Assert
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.UpstreamRequests.WithLabelValues("tasks.list", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.UpstreamRequests.WithLabelValues("tasks.list", "error")))
}

// TestMiddleware_LabelsByRoutePattern verifies requests are counted under
// the chi route pattern, not the concrete URL.
func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	// Arrange
	collector := observability.NewCollector("test")
	router := chi.NewRouter()
	router.Use(observability.Middleware(collector))
	router.Get("/companies/{companyID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Act
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies/abc-123", nil))

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	counted := testutil.ToFloat64(
		collector.HTTPRequests.WithLabelValues(http.MethodGet, "/companies/{companyID}", "200"),
	)
	assert.Equal(t, 1.0, counted)
}

// TestCollector_Handler_ServesScrape verifies the scrape endpoint renders
// the registered metrics.
func TestCollector_Handler_ServesScrape(t *testing.T) {
	// Arrange
	collector := observability.NewCollector("test")
	collector.CacheHit()
	server := httptest.NewServer(collector.Handler())
	defer server.Close()

	// Act
	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "test_cache_hits_total 1")
}
