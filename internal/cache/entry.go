// Package cache implements the resilient read-through query cache that
// backs the data screens of the HR admin app. Reads prefer fresh cached
// entries, fall back to retried network fetches, and degrade to stale
// data for critical screens when the network is down.
package cache

import (
	"encoding/json"
	"time"
)

// Entry is one cached value plus the time it was written. Freshness is
// always judged against the TTL of the current read, never a TTL stored
// with the entry, so tuning the TTL re-qualifies existing entries.
type Entry struct {
	Value     json.RawMessage `json:"value"`
	WrittenAt time.Time       `json:"writtenAt"`
}

// Age returns how long ago the entry was written.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.WrittenAt)
}

// Expired reports whether the entry is older than ttl at time now.
func (e Entry) Expired(now time.Time, ttl time.Duration) bool {
	return e.Age(now) >= ttl
}
