// Package common provides shared utilities for Yardstick
package common

import "time"

// Freshness TTLs for cached data components
const (
	FreshnessEODSeries = 6 * time.Hour       // intraday refresh of daily bars
	FreshnessFXRate    = 1 * time.Hour       // exchange rates
	FreshnessBenchmark = 24 * time.Hour      // benchmark registry prices
	FreshnessStale     = 30 * 24 * time.Hour // hard cutoff for serving cached data
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
