package cache

import (
	"sync"
	"time"
)

// Outcome classifies a finished read for metrics.
type Outcome int

const (
	OutcomeHit Outcome = iota
	OutcomeMiss
)

// Stats is a point-in-time snapshot of the aggregator.
type Stats struct {
	Hits              uint64
	Misses            uint64
	Errors            uint64
	TotalRequests     uint64
	AvgResponseTimeMs float64
}

// HitRate returns hits over total requests, 0 when nothing was recorded.
func (s Stats) HitRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.TotalRequests)
}

// Aggregator keeps running counters and an online mean of read latency.
// Every read increments exactly one of hits, misses or errors: reads that
// end in a terminal error count as errors only, even though they started
// as misses.
type Aggregator struct {
	mu     sync.Mutex
	hits   uint64
	misses uint64
	errors uint64
	total  uint64
	avgMs  float64
}

// NewAggregator returns a zeroed aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record folds one finished read into the counters and the latency mean.
func (a *Aggregator) Record(outcome Outcome, elapsed time.Duration, isError bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++
	switch {
	case isError:
		a.errors++
	case outcome == OutcomeHit:
		a.hits++
	default:
		a.misses++
	}

	// Online mean: avg' = avg + (x - avg) / n.
	ms := float64(elapsed) / float64(time.Millisecond)
	a.avgMs += (ms - a.avgMs) / float64(a.total)
}

// Snapshot returns a copy of the current counters.
func (a *Aggregator) Snapshot() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	return Stats{
		Hits:              a.hits,
		Misses:            a.misses,
		Errors:            a.errors,
		TotalRequests:     a.total,
		AvgResponseTimeMs: a.avgMs,
	}
}

// Reset zeroes every counter and the latency mean.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.hits = 0
	a.misses = 0
	a.errors = 0
	a.total = 0
	a.avgMs = 0
}

// MetricsSink mirrors cache activity into an external metrics system such
// as Prometheus. The built-in Aggregator stays authoritative for the admin
// stats endpoint; the sink is observational.
type MetricsSink interface {
	CacheHit()
	CacheMiss()
	CacheError()
	CacheEvictions(count int)
	ObserveReadDuration(elapsed time.Duration)
}

type noopSink struct{}

func (noopSink) CacheHit()                         {}
func (noopSink) CacheMiss()                        {}
func (noopSink) CacheError()                       {}
func (noopSink) CacheEvictions(int)                {}
func (noopSink) ObserveReadDuration(time.Duration) {}
