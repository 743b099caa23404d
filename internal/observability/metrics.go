// Package observability exposes the service's Prometheus metrics and
// OpenTelemetry tracing. The Collector doubles as the sink the cache and
// the upstream client report into.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every Prometheus metric the service publishes. Each
// Collector owns its registry, so tests can build as many as they like
// without duplicate-registration panics.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Query cache metrics
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	CacheErrorsTotal prometheus.Counter
	CacheEvicted     prometheus.Counter
	CacheReadSeconds prometheus.Histogram

	// Upstream call metrics
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
}

// NewCollector builds a Collector with all metrics registered under the
// given namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of query cache hits, fresh or stale",
		},
	)

	cacheMisses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of query cache misses",
		},
	)

	cacheErrors := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_errors_total",
			Help:      "Total number of reads that produced no usable value",
		},
	)

	cacheEvicted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evicted_entries_total",
			Help:      "Total number of entries removed by the eviction sweeper",
		},
	)

	cacheReadSeconds := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cache_read_duration_seconds",
			Help:      "End-to-end read-through duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	upstreamRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream calls by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	upstreamDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		cacheHits,
		cacheMisses,
		cacheErrors,
		cacheEvicted,
		cacheReadSeconds,
		upstreamRequests,
		upstreamDuration,
	)

	return &Collector{
		registry:         registry,
		HTTPRequests:     httpRequests,
		HTTPDuration:     httpDuration,
		CacheHitsTotal:   cacheHits,
		CacheMissesTotal: cacheMisses,
		CacheErrorsTotal: cacheErrors,
		CacheEvicted:     cacheEvicted,
		CacheReadSeconds: cacheReadSeconds,
		UpstreamRequests: upstreamRequests,
		UpstreamDuration: upstreamDuration,
	}
}

// CacheHit implements the cache metrics sink.
func (c *Collector) CacheHit() { c.CacheHitsTotal.Inc() }

// CacheMiss implements the cache metrics sink.
func (c *Collector) CacheMiss() { c.CacheMissesTotal.Inc() }

// CacheError implements the cache metrics sink.
func (c *Collector) CacheError() { c.CacheErrorsTotal.Inc() }

// CacheEvictions implements the cache metrics sink.
func (c *Collector) CacheEvictions(count int) { c.CacheEvicted.Add(float64(count)) }

// ObserveReadDuration implements the cache metrics sink.
func (c *Collector) ObserveReadDuration(elapsed time.Duration) {
	c.CacheReadSeconds.Observe(elapsed.Seconds())
}

// RecordUpstream implements the upstream call recorder.
func (c *Collector) RecordUpstream(operation string, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.UpstreamRequests.WithLabelValues(operation, status).Inc()
	c.UpstreamDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Registry returns the Prometheus registry backing this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the scrape endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
