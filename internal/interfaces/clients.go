// Package interfaces defines service contracts for Yardstick
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/yardstick/internal/models"
)

// MarketDataClient fetches end-of-day price history from a market data source.
type MarketDataClient interface {
	// GetEOD retrieves daily bars for a symbol between two dates, newest first.
	GetEOD(ctx context.Context, symbol string, from, to time.Time) ([]models.EODBar, error)
}

// FXClient resolves exchange rates between currency pairs.
type FXClient interface {
	// GetRate returns the multiplier converting one unit of from into to.
	GetRate(ctx context.Context, from, to string) (float64, error)
}

// RateCache caches exchange rates with a TTL. Injected into the FX client so
// tests can supply deterministic rates and clocks.
type RateCache interface {
	Get(pair string) (float64, bool)
	Put(pair string, rate float64)
}
