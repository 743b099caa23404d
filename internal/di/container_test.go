package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdfhr-backend/internal/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Upstream.URL = "http://localhost:54321"
	cfg.Upstream.APIKey = "test-key"
	cfg.Cache.InMemory = true
	return cfg
}

func TestNewContainer(t *testing.T) {
	container, err := NewContainer(context.Background(), testConfig())
	require.NoError(t, err)

	require.NotNil(t, container.Handler)
	require.NotNil(t, container.Queries)
	require.NotNil(t, container.Upstream)
	assert.NotNil(t, container.Metrics)
	assert.Nil(t, container.Tracing)
	assert.Len(t, container.Warmups, 3)

	require.NoError(t, container.Shutdown(context.Background()))
}

func TestContainerServesHealthAndMetrics(t *testing.T) {
	container, err := NewContainer(context.Background(), testConfig())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	container.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	container.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContainerWithoutMetrics(t *testing.T) {
	cfg := testConfig()
	cfg.Observability.MetricsEnabled = false

	container, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, container.Metrics)

	rec := httptest.NewRecorder()
	container.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApplyConfigRetunesCache(t *testing.T) {
	container, err := NewContainer(context.Background(), testConfig())
	require.NoError(t, err)

	next := testConfig()
	next.Cache.MaxEntries = 42
	next.Cache.DefaultTTL = config.Duration(90 * time.Second)
	container.ApplyConfig(next)

	assert.Equal(t, 42, container.Queries.MaxEntries())
	assert.Equal(t, 90*time.Second, container.Queries.DefaultTTL())
}
