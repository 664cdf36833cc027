package compare

import (
	"errors"
	"math"
	"testing"

	"github.com/bobmcallan/yardstick/internal/models"
)

func approxEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func portfolioSeries(points ...[2]interface{}) []models.PortfolioPoint {
	series := make([]models.PortfolioPoint, len(points))
	for i, p := range points {
		series[i] = models.PortfolioPoint{Date: p[0].(string), PortfolioValue: p[1].(float64)}
	}
	return series
}

func benchmarkSeries(points ...[2]interface{}) []models.PricePoint {
	series := make([]models.PricePoint, len(points))
	for i, p := range points {
		series[i] = models.PricePoint{Date: p[0].(string), Close: p[1].(float64)}
	}
	return series
}

func TestAlignSeries_OnePointPerPortfolioDate(t *testing.T) {
	portfolio := portfolioSeries(
		[2]interface{}{"2024-01-01", 10000.0},
		[2]interface{}{"2024-01-02", 10100.0},
		[2]interface{}{"2024-01-03", 10200.0},
	)
	benchmark := benchmarkSeries(
		[2]interface{}{"2024-01-01", 100.0},
		[2]interface{}{"2024-01-02", 101.0},
		[2]interface{}{"2024-01-03", 102.0},
	)

	aligned, shares, err := AlignSeries(portfolio, benchmark, DefaultToleranceDays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(aligned) != len(portfolio) {
		t.Fatalf("aligned length = %d, want %d", len(aligned), len(portfolio))
	}
	if !approxEqual(shares, 100.0, 1e-9) {
		t.Errorf("shares = %v, want 100", shares)
	}
	for i, p := range aligned {
		if p.Date != portfolio[i].Date {
			t.Errorf("point %d date = %s, want %s", i, p.Date, portfolio[i].Date)
		}
	}
}

func TestAlignSeries_FirstPointBenchmarkEqualsPortfolioStart(t *testing.T) {
	portfolio := portfolioSeries(
		[2]interface{}{"2024-01-01", 12345.0},
		[2]interface{}{"2024-01-02", 12400.0},
	)
	benchmark := benchmarkSeries(
		[2]interface{}{"2024-01-01", 417.32},
		[2]interface{}{"2024-01-02", 420.11},
	)

	aligned, _, err := AlignSeries(portfolio, benchmark, DefaultToleranceDays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(aligned[0].BenchmarkValue, 12345.0, 1e-6) {
		t.Errorf("first benchmark value = %v, want 12345", aligned[0].BenchmarkValue)
	}
	if aligned[0].BenchmarkReturn != 0 || aligned[0].CumulativeBenchmarkReturn != 0 {
		t.Errorf("first point returns = %v/%v, want 0/0",
			aligned[0].BenchmarkReturn, aligned[0].CumulativeBenchmarkReturn)
	}
}

func TestAlignSeries_ExactDateMatchPreferred(t *testing.T) {
	portfolio := portfolioSeries(
		[2]interface{}{"2024-01-01", 10000.0},
		[2]interface{}{"2024-01-05", 10500.0},
	)
	benchmark := benchmarkSeries(
		[2]interface{}{"2024-01-01", 100.0},
		[2]interface{}{"2024-01-04", 103.0},
		[2]interface{}{"2024-01-05", 104.0},
	)

	aligned, _, err := AlignSeries(portfolio, benchmark, DefaultToleranceDays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 100 shares * 104, not the nearby Jan 4 close
	if !approxEqual(aligned[1].BenchmarkValue, 10400.0, 1e-6) {
		t.Errorf("benchmark value = %v, want 10400", aligned[1].BenchmarkValue)
	}
}

func TestAlignSeries_NearestDateCloserWins(t *testing.T) {
	// Portfolio date 2024-01-10 has no benchmark close. Jan 7 is 3 days
	// earlier, Jan 15 is 5 days later; Jan 7 must win.
	portfolio := portfolioSeries(
		[2]interface{}{"2024-01-01", 10000.0},
		[2]interface{}{"2024-01-10", 10500.0},
	)
	benchmark := benchmarkSeries(
		[2]interface{}{"2024-01-01", 100.0},
		[2]interface{}{"2024-01-07", 107.0},
		[2]interface{}{"2024-01-15", 115.0},
	)

	aligned, _, err := AlignSeries(portfolio, benchmark, DefaultToleranceDays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(aligned[1].BenchmarkValue, 10700.0, 1e-6) {
		t.Errorf("benchmark value = %v, want 10700 (Jan 7 close)", aligned[1].BenchmarkValue)
	}
}

func TestAlignSeries_EquidistantEarlierWins(t *testing.T) {
	// Jan 8 and Jan 12 are both 2 days from Jan 10; the earlier close wins.
	portfolio := portfolioSeries(
		[2]interface{}{"2024-01-01", 10000.0},
		[2]interface{}{"2024-01-10", 10500.0},
	)
	benchmark := benchmarkSeries(
		[2]interface{}{"2024-01-01", 100.0},
		[2]interface{}{"2024-01-08", 108.0},
		[2]interface{}{"2024-01-12", 112.0},
	)

	aligned, _, err := AlignSeries(portfolio, benchmark, DefaultToleranceDays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(aligned[1].BenchmarkValue, 10800.0, 1e-6) {
		t.Errorf("benchmark value = %v, want 10800 (earlier Jan 8 close)", aligned[1].BenchmarkValue)
	}
}

func TestAlignSeries_StaleFillBeyondTolerance(t *testing.T) {
	// No benchmark close within 7 days of Jan 20: the previous value carries
	// forward and the step return is zero.
	portfolio := portfolioSeries(
		[2]interface{}{"2024-01-01", 10000.0},
		[2]interface{}{"2024-01-02", 10100.0},
		[2]interface{}{"2024-01-20", 10200.0},
	)
	benchmark := benchmarkSeries(
		[2]interface{}{"2024-01-01", 100.0},
		[2]interface{}{"2024-01-02", 101.0},
	)

	aligned, _, err := AlignSeries(portfolio, benchmark, DefaultToleranceDays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(aligned[2].BenchmarkValue, aligned[1].BenchmarkValue, 1e-9) {
		t.Errorf("stale fill value = %v, want previous %v", aligned[2].BenchmarkValue, aligned[1].BenchmarkValue)
	}
	if aligned[2].BenchmarkReturn != 0 {
		t.Errorf("stale fill step return = %v, want 0", aligned[2].BenchmarkReturn)
	}
}

func TestAlignSeries_BenchmarkReturns(t *testing.T) {
	portfolio := portfolioSeries(
		[2]interface{}{"2024-01-01", 10000.0},
		[2]interface{}{"2024-01-02", 10100.0},
		[2]interface{}{"2024-01-03", 10200.0},
	)
	benchmark := benchmarkSeries(
		[2]interface{}{"2024-01-01", 100.0},
		[2]interface{}{"2024-01-02", 110.0},
		[2]interface{}{"2024-01-03", 99.0},
	)

	aligned, _, err := AlignSeries(portfolio, benchmark, DefaultToleranceDays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(aligned[1].BenchmarkReturn, 0.10, 1e-9) {
		t.Errorf("step return = %v, want 0.10", aligned[1].BenchmarkReturn)
	}
	if !approxEqual(aligned[2].BenchmarkReturn, -0.10, 1e-9) {
		t.Errorf("step return = %v, want -0.10", aligned[2].BenchmarkReturn)
	}
	if !approxEqual(aligned[2].CumulativeBenchmarkReturn, -0.01, 1e-9) {
		t.Errorf("cumulative return = %v, want -0.01", aligned[2].CumulativeBenchmarkReturn)
	}
}

func TestAlignSeries_Idempotent(t *testing.T) {
	portfolio := portfolioSeries(
		[2]interface{}{"2024-01-01", 10000.0},
		[2]interface{}{"2024-01-04", 10300.0},
		[2]interface{}{"2024-01-20", 10800.0},
	)
	benchmark := benchmarkSeries(
		[2]interface{}{"2024-01-01", 100.0},
		[2]interface{}{"2024-01-05", 105.0},
	)

	first, sharesA, err := AlignSeries(portfolio, benchmark, DefaultToleranceDays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, sharesB, err := AlignSeries(portfolio, benchmark, DefaultToleranceDays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sharesA != sharesB {
		t.Errorf("shares differ across runs: %v vs %v", sharesA, sharesB)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("point %d differs across runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestAlignSeries_InputErrors(t *testing.T) {
	valid := portfolioSeries([2]interface{}{"2024-01-01", 10000.0})
	validBench := benchmarkSeries([2]interface{}{"2024-01-01", 100.0})

	cases := []struct {
		name      string
		portfolio []models.PortfolioPoint
		benchmark []models.PricePoint
	}{
		{"empty portfolio", nil, validBench},
		{"empty benchmark", valid, nil},
		{"zero first close", valid, benchmarkSeries([2]interface{}{"2024-01-01", 0.0})},
		{"negative first close", valid, benchmarkSeries([2]interface{}{"2024-01-01", -5.0})},
		{"zero starting value", portfolioSeries([2]interface{}{"2024-01-01", 0.0}), validBench},
		{"bad benchmark date", valid, benchmarkSeries([2]interface{}{"01/01/2024", 100.0})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := AlignSeries(tc.portfolio, tc.benchmark, DefaultToleranceDays)
			var inputErr *models.InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("error = %v, want InputError", err)
			}
		})
	}
}

func TestNearestClose_OutsideTolerance(t *testing.T) {
	entries := []benchEntry{
		{date: "2024-01-01", day: mustDay(t, "2024-01-01"), close: 100.0},
	}
	if _, ok := nearestClose(entries, "2024-01-20", 7); ok {
		t.Error("expected no match beyond tolerance")
	}
	if close, ok := nearestClose(entries, "2024-01-08", 7); !ok || close != 100.0 {
		t.Errorf("match at exactly 7 days = %v/%v, want 100/true", close, ok)
	}
}

func TestTrimBenchmarkLead(t *testing.T) {
	tests := []struct {
		name      string
		benchmark []models.PricePoint
		startDate string
		wantFirst string
		wantLen   int
	}{
		{
			name: "exact start trims earlier closes",
			benchmark: benchmarkSeries(
				[2]interface{}{"2024-01-03", 100.0},
				[2]interface{}{"2024-01-10", 110.0},
				[2]interface{}{"2024-01-11", 111.0},
			),
			startDate: "2024-01-10",
			wantFirst: "2024-01-10",
			wantLen:   2,
		},
		{
			name: "weekend start keeps nearest prior close",
			benchmark: benchmarkSeries(
				[2]interface{}{"2024-01-05", 100.0},
				[2]interface{}{"2024-01-08", 102.0},
			),
			startDate: "2024-01-06",
			wantFirst: "2024-01-05",
			wantLen:   2,
		},
		{
			name: "prior close beyond tolerance dropped",
			benchmark: benchmarkSeries(
				[2]interface{}{"2023-12-01", 90.0},
				[2]interface{}{"2024-01-10", 110.0},
			),
			startDate: "2024-01-10",
			wantFirst: "2024-01-10",
			wantLen:   1,
		},
		{
			name: "no lead leaves series untouched",
			benchmark: benchmarkSeries(
				[2]interface{}{"2024-01-10", 110.0},
				[2]interface{}{"2024-01-11", 111.0},
			),
			startDate: "2024-01-10",
			wantFirst: "2024-01-10",
			wantLen:   2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			trimmed := TrimBenchmarkLead(tc.benchmark, tc.startDate, 7)
			if len(trimmed) != tc.wantLen {
				t.Fatalf("len = %d, want %d", len(trimmed), tc.wantLen)
			}
			if trimmed[0].Date != tc.wantFirst {
				t.Errorf("first date = %s, want %s", trimmed[0].Date, tc.wantFirst)
			}
		})
	}
}

func mustDay(t *testing.T, date string) int {
	t.Helper()
	day, err := models.DayNumber(date)
	if err != nil {
		t.Fatalf("DayNumber(%s): %v", date, err)
	}
	return day
}
