// Package valuation builds daily portfolio value series from stored positions.
package valuation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bobmcallan/yardstick/internal/common"
	"github.com/bobmcallan/yardstick/internal/interfaces"
	"github.com/bobmcallan/yardstick/internal/models"
)

// Service implements ValuationService.
type Service struct {
	storage interfaces.StorageManager
	history interfaces.HistoryService
	fx      interfaces.FXClient
	logger  *common.Logger
}

// NewService creates a new valuation service.
func NewService(storage interfaces.StorageManager, history interfaces.HistoryService, fx interfaces.FXClient, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		history: history,
		fx:      fx,
		logger:  logger,
	}
}

// pricedPosition pairs a position with its price series and the FX rate
// converting its currency into the portfolio base currency.
type pricedPosition struct {
	position models.Position
	series   []models.PricePoint // ascending by date
	fxRate   float64
}

// GetPortfolioHistory returns one PortfolioPoint per date with price coverage
// in the range, ascending by date.
func (s *Service) GetPortfolioHistory(ctx context.Context, name string, from, to time.Time) ([]models.PortfolioPoint, error) {
	start := time.Now()

	portfolio, err := s.storage.PortfolioStorage().GetPortfolio(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("portfolio '%s' not found: %w", name, err)
	}

	from, to = normalizeRange(from, to)

	// Load price series for every position. A 7-day lead gives the first
	// calendar date an as-of close even when it lands on a non-trading day.
	priced := make([]pricedPosition, 0, len(portfolio.Positions))
	var lastErr error
	for _, pos := range portfolio.Positions {
		series, err := s.history.GetHistory(ctx, pos.Symbol, from.AddDate(0, 0, -7), to)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", pos.Symbol).Msg("No price data for position, excluding from valuation")
			lastErr = err
			continue
		}

		rate := 1.0
		if pos.Currency != "" && pos.Currency != portfolio.BaseCurrency {
			rate, err = s.fx.GetRate(ctx, pos.Currency, portfolio.BaseCurrency)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve FX rate %s/%s: %w", pos.Currency, portfolio.BaseCurrency, err)
			}
		}

		priced = append(priced, pricedPosition{position: pos, series: series, fxRate: rate})
	}

	if len(priced) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, fmt.Errorf("portfolio '%s' has no positions with price data", name)
	}

	points := make([]models.PortfolioPoint, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := d.Format(models.DateLayout)

		total := 0.0
		covered := 0
		for _, pp := range priced {
			close, ok := closeAsOf(pp.series, date)
			if !ok {
				continue
			}
			total += pp.position.Units * close * pp.fxRate
			covered++
		}

		// Skip dates before any position has a price.
		if covered == 0 || total <= 0 {
			continue
		}

		points = append(points, models.PortfolioPoint{Date: date, PortfolioValue: total})
	}

	if len(points) == 0 {
		return nil, &models.DataUnavailableError{Symbol: name, Reason: "no valued dates in requested range"}
	}

	fillReturns(points)

	s.logger.Info().
		Str("portfolio", name).
		Int("points", len(points)).
		Int("positions", len(priced)).
		Dur("elapsed", time.Since(start)).
		Msg("Portfolio valuation series built")

	return points, nil
}

// normalizeRange applies defaults: a missing from starts one year back, a
// missing or future to ends yesterday.
func normalizeRange(from, to time.Time) (time.Time, time.Time) {
	yesterday := time.Now().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	if to.IsZero() || to.After(yesterday) {
		to = yesterday
	}
	if from.IsZero() {
		from = to.AddDate(-1, 0, 0)
	}
	return from.Truncate(24 * time.Hour), to.Truncate(24 * time.Hour)
}

// closeAsOf finds the latest close at or before the target date.
// The series is ascending, so binary search for the first later date and step
// back one.
func closeAsOf(series []models.PricePoint, date string) (float64, bool) {
	idx := sort.Search(len(series), func(i int) bool {
		return series[i].Date > date
	})
	if idx == 0 {
		return 0, false
	}
	return series[idx-1].Close, true
}

// fillReturns computes per-step and cumulative returns in place.
// The first point's returns are always 0.
func fillReturns(points []models.PortfolioPoint) {
	first := points[0].PortfolioValue
	for i := range points {
		if i == 0 {
			continue
		}
		prev := points[i-1].PortfolioValue
		if prev > 0 {
			points[i].PortfolioReturn = (points[i].PortfolioValue - prev) / prev
		}
		if first > 0 {
			points[i].CumulativePortfolioReturn = (points[i].PortfolioValue - first) / first
		}
	}
}

var _ interfaces.ValuationService = (*Service)(nil)
