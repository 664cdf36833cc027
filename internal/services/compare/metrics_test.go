package compare

import (
	"errors"
	"testing"

	"github.com/bobmcallan/yardstick/internal/models"
)

func TestCalculateMetrics_EndToEndScenario(t *testing.T) {
	// Portfolio 10000 -> 11000 against a benchmark 100 -> 105.
	portfolio := portfolioSeries(
		[2]interface{}{"2024-01-01", 10000.0},
		[2]interface{}{"2024-01-02", 11000.0},
	)
	benchmark := benchmarkSeries(
		[2]interface{}{"2024-01-01", 100.0},
		[2]interface{}{"2024-01-02", 105.0},
	)

	aligned, shares, err := AlignSeries(portfolio, benchmark, DefaultToleranceDays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(shares, 100.0, 1e-9) {
		t.Errorf("shares = %v, want 100", shares)
	}
	if !approxEqual(aligned[1].BenchmarkValue, 10500.0, 1e-6) {
		t.Errorf("final benchmark value = %v, want 10500", aligned[1].BenchmarkValue)
	}

	m, err := CalculateMetrics(aligned, DefaultRiskFreeRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(m.PortfolioReturn, 0.10, 1e-9) {
		t.Errorf("portfolio return = %v, want 0.10", m.PortfolioReturn)
	}
	if !approxEqual(m.BenchmarkReturn, 0.05, 1e-9) {
		t.Errorf("benchmark return = %v, want 0.05", m.BenchmarkReturn)
	}
	if !approxEqual(m.Alpha, 0.05, 1e-9) {
		t.Errorf("alpha = %v, want 0.05", m.Alpha)
	}
}

func TestCalculateMetrics_InsufficientData(t *testing.T) {
	for _, n := range []int{0, 1} {
		points := make([]models.AlignedPoint, n)
		for i := range points {
			points[i] = models.AlignedPoint{Date: "2024-01-01", PortfolioValue: 100, BenchmarkValue: 100}
		}
		_, err := CalculateMetrics(points, DefaultRiskFreeRate)
		var insufficientErr *models.InsufficientDataError
		if !errors.As(err, &insufficientErr) {
			t.Fatalf("points=%d: error = %v, want InsufficientDataError", n, err)
		}
		if insufficientErr.Points != n {
			t.Errorf("points=%d: error reports %d points", n, insufficientErr.Points)
		}
	}
}

func TestCalculateMetrics_MaxDrawdown(t *testing.T) {
	// Peak 120, trough 90: drawdown (120-90)/120 = 0.25.
	points := []models.AlignedPoint{
		{Date: "2024-01-01", PortfolioValue: 100, BenchmarkValue: 100},
		{Date: "2024-01-02", PortfolioValue: 120, BenchmarkValue: 101},
		{Date: "2024-01-03", PortfolioValue: 90, BenchmarkValue: 102},
		{Date: "2024-01-04", PortfolioValue: 110, BenchmarkValue: 103},
	}
	m, err := CalculateMetrics(points, DefaultRiskFreeRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(m.MaxDrawdown, 0.25, 1e-9) {
		t.Errorf("max drawdown = %v, want 0.25", m.MaxDrawdown)
	}
}

func TestCalculateMetrics_MonotonicGrowthHasZeroDrawdown(t *testing.T) {
	points := []models.AlignedPoint{
		{Date: "2024-01-01", PortfolioValue: 100, BenchmarkValue: 100},
		{Date: "2024-01-02", PortfolioValue: 105, BenchmarkValue: 101},
		{Date: "2024-01-03", PortfolioValue: 111, BenchmarkValue: 102},
	}
	m, err := CalculateMetrics(points, DefaultRiskFreeRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.MaxDrawdown != 0 {
		t.Errorf("max drawdown = %v, want 0", m.MaxDrawdown)
	}
}

func TestCalculateMetrics_ZeroVolatilitySharpeIsZero(t *testing.T) {
	// Flat portfolio: volatility 0, Sharpe must be 0, not Inf or NaN.
	points := []models.AlignedPoint{
		{Date: "2024-01-01", PortfolioValue: 100, BenchmarkValue: 100},
		{Date: "2024-01-02", PortfolioValue: 100, BenchmarkValue: 102},
		{Date: "2024-01-03", PortfolioValue: 100, BenchmarkValue: 104},
	}
	m, err := CalculateMetrics(points, DefaultRiskFreeRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.SharpeRatio != 0 {
		t.Errorf("sharpe = %v, want 0", m.SharpeRatio)
	}
}

func TestCalculateMetrics_BetaMatchesBenchmarkMultiple(t *testing.T) {
	// Portfolio steps are exactly 2x the benchmark steps, so beta is 2.
	points := []models.AlignedPoint{
		{Date: "2024-01-01", PortfolioValue: 100, BenchmarkValue: 100},
		{Date: "2024-01-02", PortfolioValue: 102, BenchmarkValue: 101},
		{Date: "2024-01-03", PortfolioValue: 99.96, BenchmarkValue: 99.99},
		{Date: "2024-01-04", PortfolioValue: 103.9584, BenchmarkValue: 101.99},
	}
	m, err := CalculateMetrics(points, DefaultRiskFreeRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(m.Beta, 2.0, 0.01) {
		t.Errorf("beta = %v, want ~2.0", m.Beta)
	}
}

func TestCalculateMetrics_FlatBenchmarkBetaFallsBackToOne(t *testing.T) {
	points := []models.AlignedPoint{
		{Date: "2024-01-01", PortfolioValue: 100, BenchmarkValue: 100},
		{Date: "2024-01-02", PortfolioValue: 105, BenchmarkValue: 100},
		{Date: "2024-01-03", PortfolioValue: 98, BenchmarkValue: 100},
	}
	m, err := CalculateMetrics(points, DefaultRiskFreeRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Beta != 1 {
		t.Errorf("beta = %v, want 1 for flat benchmark", m.Beta)
	}
}
