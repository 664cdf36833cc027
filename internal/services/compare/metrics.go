package compare

import (
	"math"

	"github.com/bobmcallan/yardstick/internal/models"
)

// DefaultRiskFreeRate is the annualized risk-free rate used by the Sharpe
// ratio when no rate is configured.
const DefaultRiskFreeRate = 0.02

// tradingDaysPerYear is the annualization convention for volatility.
const tradingDaysPerYear = 252

// CalculateMetrics derives the scalar risk/return metrics from an aligned
// series of at least two points. Per-step returns are recomputed fresh from
// the value columns rather than read from the stored return fields, avoiding
// compounding of upstream rounding.
//
// Both headline returns use the portfolio's starting value as denominator —
// the series share the same origin by construction in AlignSeries, so the two
// returns are directly comparable.
func CalculateMetrics(points []models.AlignedPoint, riskFreeRate float64) (models.PerformanceMetrics, error) {
	if len(points) < 2 {
		return models.PerformanceMetrics{}, &models.InsufficientDataError{Points: len(points)}
	}

	first := points[0]
	last := points[len(points)-1]

	m := models.PerformanceMetrics{
		PortfolioReturn: (last.PortfolioValue - first.PortfolioValue) / first.PortfolioValue,
		BenchmarkReturn: (last.BenchmarkValue - first.PortfolioValue) / first.PortfolioValue,
	}
	m.Alpha = m.PortfolioReturn - m.BenchmarkReturn

	portfolioSteps := make([]float64, 0, len(points)-1)
	benchmarkSteps := make([]float64, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		portfolioSteps = append(portfolioSteps, stepReturn(points[i-1].PortfolioValue, points[i].PortfolioValue))
		benchmarkSteps = append(benchmarkSteps, stepReturn(points[i-1].BenchmarkValue, points[i].BenchmarkValue))
	}

	avgPortfolio := mean(portfolioSteps)
	volatility := math.Sqrt(populationVariance(portfolioSteps, avgPortfolio)) * math.Sqrt(tradingDaysPerYear)

	// Zero volatility yields a Sharpe of 0, never Inf/NaN.
	if volatility > 0 {
		m.SharpeRatio = (avgPortfolio - riskFreeRate) / volatility
	}

	m.Beta = beta(portfolioSteps, benchmarkSteps)
	m.MaxDrawdown = maxDrawdown(points)

	return m, nil
}

func stepReturn(prev, cur float64) float64 {
	if prev <= 0 {
		return 0
	}
	return (cur - prev) / prev
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// populationVariance divides by N, not N-1.
func populationVariance(xs []float64, mean float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(xs))
}

// beta is the covariance of portfolio and benchmark step returns divided by
// the benchmark variance. A flat benchmark (zero variance) falls back to 1.
func beta(portfolioSteps, benchmarkSteps []float64) float64 {
	pMean := mean(portfolioSteps)
	bMean := mean(benchmarkSteps)

	bVar := populationVariance(benchmarkSteps, bMean)
	if bVar == 0 {
		return 1
	}

	cov := 0.0
	for i := range portfolioSteps {
		cov += (portfolioSteps[i] - pMean) * (benchmarkSteps[i] - bMean)
	}
	cov /= float64(len(portfolioSteps))

	return cov / bVar
}

// maxDrawdown tracks a running peak of portfolio value and returns the
// largest (peak - value) / peak observed, clamped to >= 0.
func maxDrawdown(points []models.AlignedPoint) float64 {
	peak := points[0].PortfolioValue
	maxDD := 0.0
	for _, p := range points[1:] {
		if p.PortfolioValue > peak {
			peak = p.PortfolioValue
			continue
		}
		if peak > 0 {
			if dd := (peak - p.PortfolioValue) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
