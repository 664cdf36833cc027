// Package compare aligns portfolio and benchmark series onto a shared scale
// and computes the risk/return metrics of the comparison.
package compare

import (
	"context"
	"time"

	"github.com/bobmcallan/yardstick/internal/common"
	"github.com/bobmcallan/yardstick/internal/interfaces"
	"github.com/bobmcallan/yardstick/internal/models"
)

// Service orchestrates benchmark comparisons: it builds the two input series,
// aligns them, and assembles the full result.
type Service struct {
	valuation     interfaces.ValuationService
	history       interfaces.HistoryService
	riskFreeRate  float64
	toleranceDays int
	logger        *common.Logger
}

var _ interfaces.CompareService = (*Service)(nil)

// NewService creates a comparison service. Alignment tolerance and the
// Sharpe risk-free rate come from configuration.
func NewService(valuation interfaces.ValuationService, history interfaces.HistoryService, cfg common.CompareConfig, logger *common.Logger) *Service {
	riskFree := cfg.RiskFreeRate
	if riskFree < 0 {
		riskFree = DefaultRiskFreeRate
	}
	tolerance := cfg.AlignToleranceDays
	if tolerance <= 0 {
		tolerance = DefaultToleranceDays
	}
	return &Service{
		valuation:     valuation,
		history:       history,
		riskFreeRate:  riskFree,
		toleranceDays: tolerance,
		logger:        logger,
	}
}

// CompareToBenchmark aligns the two series, computes metrics from the aligned
// result, and assembles the response. The portfolio series is echoed back
// unchanged; StartingValue is the portfolio's first value and BenchmarkShares
// the scale factor applied to benchmark closes.
func (s *Service) CompareToBenchmark(portfolio []models.PortfolioPoint, benchmark []models.PricePoint, bench models.Benchmark) (*models.ComparisonResult, error) {
	aligned, shares, err := AlignSeries(portfolio, benchmark, s.toleranceDays)
	if err != nil {
		return nil, err
	}

	metrics, err := CalculateMetrics(aligned, s.riskFreeRate)
	if err != nil {
		return nil, err
	}

	return &models.ComparisonResult{
		NormalizedComparison: models.NormalizedComparison{
			NormalizedPortfolio: portfolio,
			NormalizedBenchmark: aligned,
			StartingValue:       portfolio[0].PortfolioValue,
			BenchmarkShares:     shares,
		},
		Metrics:   metrics,
		Benchmark: bench,
	}, nil
}

// Compare resolves the benchmark, builds both series for the range, and runs
// the comparison. The benchmark fetch is bounded by the portfolio series'
// actual first and last dates so both sides cover the same window.
func (s *Service) Compare(ctx context.Context, portfolioName, benchmarkID string, from, to time.Time) (*models.ComparisonResult, error) {
	bench, ok := models.BenchmarkByID(benchmarkID)
	if !ok {
		return nil, models.NewInputError("unknown benchmark %q", benchmarkID)
	}

	portfolio, err := s.valuation.GetPortfolioHistory(ctx, portfolioName, from, to)
	if err != nil {
		return nil, err
	}
	if len(portfolio) == 0 {
		return nil, models.NewInputError("portfolio series is empty")
	}

	first, err := time.Parse(models.DateLayout, portfolio[0].Date)
	if err != nil {
		return nil, models.NewInputError("invalid portfolio date %q", portfolio[0].Date)
	}
	last, err := time.Parse(models.DateLayout, portfolio[len(portfolio)-1].Date)
	if err != nil {
		return nil, models.NewInputError("invalid portfolio date %q", portfolio[len(portfolio)-1].Date)
	}

	// Lead the fetch window by the tolerance so a portfolio starting on a
	// non-trading day still has an earlier close to match. The lead is
	// trimmed back before aligning so the scale anchor stays at the close
	// nearest the portfolio's start, not at the head of the widened window.
	benchFrom := first.AddDate(0, 0, -s.toleranceDays)
	benchmark, err := s.history.GetHistory(ctx, bench.Symbol, benchFrom, last)
	if err != nil {
		return nil, err
	}
	benchmark = TrimBenchmarkLead(benchmark, portfolio[0].Date, s.toleranceDays)

	s.logger.Debug().
		Str("portfolio", portfolioName).
		Str("benchmark", bench.ID).
		Int("portfolio_points", len(portfolio)).
		Int("benchmark_points", len(benchmark)).
		Msg("Comparing portfolio to benchmark")

	return s.CompareToBenchmark(portfolio, benchmark, bench)
}

// RenderChart runs the comparison and renders the aligned series as a PNG.
func (s *Service) RenderChart(ctx context.Context, portfolioName, benchmarkID string, from, to time.Time) ([]byte, error) {
	result, err := s.Compare(ctx, portfolioName, benchmarkID, from, to)
	if err != nil {
		return nil, err
	}
	return RenderComparisonChart(result)
}
