package fx

import (
	"sync"
	"time"

	"github.com/bobmcallan/yardstick/internal/interfaces"
)

// Clock returns the current time. Injectable for deterministic cache tests.
type Clock func() time.Time

type cacheEntry struct {
	rate     float64
	storedAt time.Time
}

// TTLCache is a currency-pair rate cache with a fixed TTL. It is injected
// into the FX client as a dependency rather than held as package state, so
// each client instance owns its cache and tests can control expiry.
type TTLCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[string]cacheEntry
}

// NewTTLCache creates a rate cache. A nil clock uses time.Now.
func NewTTLCache(ttl time.Duration, now Clock) *TTLCache {
	if now == nil {
		now = time.Now
	}
	return &TTLCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached rate for a pair if present and not expired.
func (c *TTLCache) Get(pair string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[pair]
	if !ok {
		return 0, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, pair)
		return 0, false
	}
	return entry.rate, true
}

// Put stores a rate for a pair, stamping it with the cache clock.
func (c *TTLCache) Put(pair string, rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[pair] = cacheEntry{rate: rate, storedAt: c.now()}
}

var _ interfaces.RateCache = (*TTLCache)(nil)
