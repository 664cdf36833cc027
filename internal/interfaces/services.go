// Package interfaces defines service contracts for Yardstick
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/yardstick/internal/models"
)

// HistoryService serves ordered benchmark price series, caching fetched data.
type HistoryService interface {
	// GetHistory returns daily price points for a symbol between two dates,
	// ascending by date. Fails with DataUnavailableError when the source
	// cannot be reached or returns no data for the range.
	GetHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error)

	// RefreshSymbol forces a re-fetch of the cached series for a symbol.
	RefreshSymbol(ctx context.Context, symbol string) error
}

// ValuationService builds daily portfolio value series from stored positions.
type ValuationService interface {
	// GetPortfolioHistory returns one PortfolioPoint per date with price
	// coverage in the range, ascending. The first point's cumulative return
	// is always 0.
	GetPortfolioHistory(ctx context.Context, name string, from, to time.Time) ([]models.PortfolioPoint, error)
}

// CompareService runs benchmark comparisons end to end.
type CompareService interface {
	// Compare builds both series for the range and assembles the full
	// comparison result for the named portfolio against a registry benchmark.
	Compare(ctx context.Context, portfolioName, benchmarkID string, from, to time.Time) (*models.ComparisonResult, error)

	// RenderChart renders the aligned comparison as a PNG line chart.
	RenderChart(ctx context.Context, portfolioName, benchmarkID string, from, to time.Time) ([]byte, error)
}
