// Package compare implements portfolio-vs-benchmark normalization and metrics.
package compare

import (
	"sort"

	"github.com/bobmcallan/yardstick/internal/models"
)

// DefaultToleranceDays bounds the nearest-date search when the benchmark has
// no price on a portfolio date.
const DefaultToleranceDays = 7

// benchEntry is one benchmark price with its date pre-parsed to a day ordinal
// for day-difference arithmetic.
type benchEntry struct {
	date  string
	day   int
	close float64
}

// AlignSeries produces one AlignedPoint per portfolio point, rescaling the
// benchmark onto the portfolio's date index and starting value.
//
// The scale factor benchmarkShares = portfolio[0].PortfolioValue /
// benchmark[0].Close makes the benchmark track the same starting dollar value
// as the portfolio, so the first aligned point's benchmark value equals the
// portfolio's starting value by construction.
//
// Dates with no exact benchmark price use the closest benchmark date within
// toleranceDays calendar days, the earlier date winning ties. Dates with no
// benchmark price within tolerance carry the previous benchmark value forward
// unchanged (stale fill, zero step return).
//
// Pure function: identical inputs yield identical output.
func AlignSeries(portfolio []models.PortfolioPoint, benchmark []models.PricePoint, toleranceDays int) ([]models.AlignedPoint, float64, error) {
	if len(portfolio) == 0 {
		return nil, 0, models.NewInputError("portfolio series is empty")
	}
	if len(benchmark) == 0 {
		return nil, 0, models.NewInputError("benchmark series is empty")
	}
	if benchmark[0].Close <= 0 {
		return nil, 0, models.NewInputError("benchmark series starts with non-positive close %v", benchmark[0].Close)
	}
	if portfolio[0].PortfolioValue <= 0 {
		return nil, 0, models.NewInputError("portfolio series starts with non-positive value %v", portfolio[0].PortfolioValue)
	}
	if toleranceDays <= 0 {
		toleranceDays = DefaultToleranceDays
	}

	shares := portfolio[0].PortfolioValue / benchmark[0].Close

	exact := make(map[string]float64, len(benchmark))
	entries := make([]benchEntry, len(benchmark))
	for i, p := range benchmark {
		day, err := models.DayNumber(p.Date)
		if err != nil {
			return nil, 0, models.NewInputError("benchmark point %d: %v", i, err)
		}
		exact[p.Date] = p.Close
		entries[i] = benchEntry{date: p.Date, day: day, close: p.Close}
	}

	aligned := make([]models.AlignedPoint, len(portfolio))
	for i, pp := range portfolio {
		point := models.AlignedPoint{
			Date:                      pp.Date,
			PortfolioValue:            pp.PortfolioValue,
			PortfolioReturn:           pp.PortfolioReturn,
			CumulativePortfolioReturn: pp.CumulativePortfolioReturn,
		}

		switch {
		case i == 0:
			// The first point anchors to the benchmark's own start so both
			// series share the same origin.
			point.BenchmarkValue = shares * benchmark[0].Close
		default:
			if close, ok := exact[pp.Date]; ok {
				point.BenchmarkValue = shares * close
			} else if close, ok := nearestClose(entries, pp.Date, toleranceDays); ok {
				point.BenchmarkValue = shares * close
			} else {
				// Stale fill: no benchmark price within tolerance.
				point.BenchmarkValue = aligned[i-1].BenchmarkValue
			}

			if prev := aligned[i-1].BenchmarkValue; prev > 0 {
				point.BenchmarkReturn = (point.BenchmarkValue - prev) / prev
			}
			if first := aligned[0].BenchmarkValue; first > 0 {
				point.CumulativeBenchmarkReturn = (point.BenchmarkValue - first) / first
			}
		}

		aligned[i] = point
	}

	return aligned, shares, nil
}

// TrimBenchmarkLead drops benchmark points dated before startDate, keeping at
// most one: the close nearest startDate within toleranceDays, the earlier date
// winning ties as in nearestClose. The scale anchor then sits at the
// portfolio's start rather than at the head of a widened fetch window.
func TrimBenchmarkLead(benchmark []models.PricePoint, startDate string, toleranceDays int) []models.PricePoint {
	targetDay, err := models.DayNumber(startDate)
	if err != nil {
		return benchmark
	}
	if toleranceDays <= 0 {
		toleranceDays = DefaultToleranceDays
	}

	// First index dated on or after the portfolio start.
	idx := 0
	for idx < len(benchmark) {
		day, err := models.DayNumber(benchmark[idx].Date)
		if err != nil || day >= targetDay {
			break
		}
		idx++
	}
	if idx == 0 {
		return benchmark
	}

	if day, err := models.DayNumber(benchmark[idx-1].Date); err == nil {
		before := targetDay - day
		after := toleranceDays + 1
		if idx < len(benchmark) {
			if d, err := models.DayNumber(benchmark[idx].Date); err == nil {
				after = d - targetDay
			}
		}
		if before <= toleranceDays && before <= after {
			return benchmark[idx-1:]
		}
	}
	return benchmark[idx:]
}

// nearestClose finds the benchmark close with the smallest absolute
// day-difference from the target date, bounded by toleranceDays. When the two
// neighbouring dates are equidistant the earlier one wins (strict < on the
// later candidate's distance).
func nearestClose(entries []benchEntry, date string, toleranceDays int) (float64, bool) {
	targetDay, err := models.DayNumber(date)
	if err != nil {
		return 0, false
	}

	// Entries are ascending by date; find the insertion point.
	idx := sort.Search(len(entries), func(i int) bool {
		return entries[i].day >= targetDay
	})

	bestDiff := toleranceDays + 1
	bestClose := 0.0

	if idx > 0 {
		if d := targetDay - entries[idx-1].day; d < bestDiff {
			bestDiff = d
			bestClose = entries[idx-1].close
		}
	}
	if idx < len(entries) {
		// Strict <: the earlier candidate keeps ties.
		if d := entries[idx].day - targetDay; d < bestDiff {
			bestDiff = d
			bestClose = entries[idx].close
		}
	}

	if bestDiff > toleranceDays {
		return 0, false
	}
	return bestClose, true
}
