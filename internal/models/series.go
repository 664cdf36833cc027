// Package models defines the data structures shared across Yardstick services
package models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date wire format used throughout the API.
// Dates carry no time-of-day component and compare lexically.
const DateLayout = "2006-01-02"

// DayNumber converts a calendar date string to a day ordinal (days since the
// Unix epoch) for day-difference arithmetic in nearest-date searches.
func DayNumber(date string) (int, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("invalid calendar date %q: %w", date, err)
	}
	return int(t.Unix() / 86400), nil
}

// PricePoint is one trading day's closing price for a benchmark instrument.
// Series are ordered ascending by date; non-trading days are absent.
type PricePoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// PortfolioPoint is one row of the aggregate mark-to-market portfolio value
// series. The first point's CumulativePortfolioReturn is always 0.
type PortfolioPoint struct {
	Date                      string  `json:"date"`
	PortfolioValue            float64 `json:"portfolioValue"`
	PortfolioReturn           float64 `json:"portfolioReturn"`
	CumulativePortfolioReturn float64 `json:"cumulativePortfolioReturn"`
}

// AlignedPoint pairs a portfolio value with the benchmark price rescaled onto
// the portfolio's date index and starting value. One per portfolio date.
type AlignedPoint struct {
	Date                      string  `json:"date"`
	PortfolioValue            float64 `json:"portfolioValue"`
	BenchmarkValue            float64 `json:"benchmarkValue"`
	PortfolioReturn           float64 `json:"portfolioReturn"`
	BenchmarkReturn           float64 `json:"benchmarkReturn"`
	CumulativePortfolioReturn float64 `json:"cumulativePortfolioReturn"`
	CumulativeBenchmarkReturn float64 `json:"cumulativeBenchmarkReturn"`
}

// PerformanceMetrics holds the scalar risk/return metrics for one comparison.
// All values are decimal ratios, not percentages.
type PerformanceMetrics struct {
	PortfolioReturn float64 `json:"portfolioReturn"`
	BenchmarkReturn float64 `json:"benchmarkReturn"`
	Alpha           float64 `json:"alpha"`
	Beta            float64 `json:"beta"`
	SharpeRatio     float64 `json:"sharpeRatio"`
	MaxDrawdown     float64 `json:"maxDrawdown"`
}

// NormalizedComparison packages the aligned series and the scale factor that
// produced them. BenchmarkShares is exposed for auditability.
type NormalizedComparison struct {
	NormalizedPortfolio []PortfolioPoint `json:"normalizedPortfolio"`
	NormalizedBenchmark []AlignedPoint   `json:"normalizedBenchmark"`
	StartingValue       float64          `json:"startingValue"`
	BenchmarkShares     float64          `json:"benchmarkShares"`
}

// ComparisonResult is the complete response for one benchmark comparison,
// serialized directly as the JSON response body.
type ComparisonResult struct {
	NormalizedComparison NormalizedComparison `json:"normalizedComparison"`
	Metrics              PerformanceMetrics   `json:"metrics"`
	Benchmark            Benchmark            `json:"benchmark"`
}
