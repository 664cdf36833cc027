package compare

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/yardstick/internal/models"
)

// RenderComparisonChart renders a PNG line chart of the aligned comparison.
// Two series: the portfolio value (blue solid) and the rescaled benchmark
// (gray dashed). Returns raw PNG bytes.
func RenderComparisonChart(result *models.ComparisonResult) ([]byte, error) {
	aligned := result.NormalizedComparison.NormalizedBenchmark
	if len(aligned) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(aligned))
	}

	xValues := make([]time.Time, len(aligned))
	portfolioY := make([]float64, len(aligned))
	benchmarkY := make([]float64, len(aligned))

	for i, p := range aligned {
		t, err := time.Parse(models.DateLayout, p.Date)
		if err != nil {
			return nil, fmt.Errorf("aligned point %d: invalid date %q", i, p.Date)
		}
		xValues[i] = t
		portfolioY[i] = p.PortfolioValue
		benchmarkY[i] = p.BenchmarkValue
	}

	portfolioSeries := chart.TimeSeries{
		Name: "Portfolio",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: portfolioY,
	}

	benchmarkSeries := chart.TimeSeries{
		Name: result.Benchmark.Name,
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: benchmarkY,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Portfolio vs %s", result.Benchmark.Name),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			portfolioSeries,
			benchmarkSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
