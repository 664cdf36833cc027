// Package history serves benchmark price series backed by a market-data cache.
package history

import (
	"context"
	"sort"
	"time"

	"github.com/bobmcallan/yardstick/internal/common"
	"github.com/bobmcallan/yardstick/internal/interfaces"
	"github.com/bobmcallan/yardstick/internal/models"
)

// Service implements HistoryService. Fetched EOD series are cached in storage
// and re-fetched when stale or when they don't reach back far enough for the
// requested range.
type Service struct {
	storage interfaces.StorageManager
	client  interfaces.MarketDataClient
	logger  *common.Logger
}

// NewService creates a new history service.
func NewService(storage interfaces.StorageManager, client interfaces.MarketDataClient, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		client:  client,
		logger:  logger,
	}
}

// GetHistory returns daily price points for a symbol between two dates,
// ascending by date.
func (s *Service) GetHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error) {
	data, err := s.storage.MarketDataStorage().GetMarketData(ctx, symbol)
	if err != nil {
		data = nil
	}

	if !s.covers(data, from) {
		data, err = s.fetchAndStore(ctx, symbol, from, data)
		if err != nil {
			return nil, err
		}
	}

	points := barsToPricePoints(data.EOD, from, to)
	if len(points) == 0 {
		return nil, &models.DataUnavailableError{Symbol: symbol, Reason: "no price data in requested range"}
	}
	return points, nil
}

// RefreshSymbol forces a re-fetch of the cached series for a symbol.
func (s *Service) RefreshSymbol(ctx context.Context, symbol string) error {
	cached, err := s.storage.MarketDataStorage().GetMarketData(ctx, symbol)
	if err != nil {
		cached = nil
	}

	from := time.Now().AddDate(-5, 0, 0)
	if cached != nil && !cached.EarliestBarDate().IsZero() && cached.EarliestBarDate().Before(from) {
		from = cached.EarliestBarDate()
	}

	_, err = s.fetchAndStore(ctx, symbol, from, cached)
	return err
}

// covers reports whether the cached series is fresh and reaches back to from.
func (s *Service) covers(data *models.MarketData, from time.Time) bool {
	if data == nil || len(data.EOD) == 0 {
		return false
	}
	if !common.IsFresh(data.LastUpdated, common.FreshnessEODSeries) {
		return false
	}
	return !data.EarliestBarDate().After(from)
}

// fetchAndStore fetches bars from the client, merges them with any cached
// series, and persists the result. On fetch failure a usable cached series is
// served stale; otherwise the failure surfaces as DataUnavailableError.
func (s *Service) fetchAndStore(ctx context.Context, symbol string, from time.Time, cached *models.MarketData) (*models.MarketData, error) {
	bars, err := s.client.GetEOD(ctx, symbol, from, time.Time{})
	if err != nil {
		if cached != nil && len(cached.EOD) > 0 && common.IsFresh(cached.LastUpdated, common.FreshnessStale) {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Market data fetch failed, serving cached series")
			return cached, nil
		}
		return nil, &models.DataUnavailableError{Symbol: symbol, Reason: "market data fetch failed", Err: err}
	}

	if cached != nil {
		bars = mergeBars(cached.EOD, bars)
	}

	data := &models.MarketData{
		Symbol:      symbol,
		EOD:         bars,
		LastUpdated: time.Now(),
	}

	if err := s.storage.MarketDataStorage().SaveMarketData(ctx, data); err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache market data")
	}

	return data, nil
}

// mergeBars combines two bar sets by date, newer fetch winning, and returns
// them descending by date (newest first).
func mergeBars(existing, fetched []models.EODBar) []models.EODBar {
	byDate := make(map[string]models.EODBar, len(existing)+len(fetched))
	for _, b := range existing {
		byDate[b.Date.Format(models.DateLayout)] = b
	}
	for _, b := range fetched {
		byDate[b.Date.Format(models.DateLayout)] = b
	}

	merged := make([]models.EODBar, 0, len(byDate))
	for _, b := range byDate {
		merged = append(merged, b)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date.After(merged[j].Date) })
	return merged
}

// barsToPricePoints filters bars to [from, to] and converts them to ascending
// price points, dropping non-positive closes (bad source data).
func barsToPricePoints(bars []models.EODBar, from, to time.Time) []models.PricePoint {
	points := make([]models.PricePoint, 0, len(bars))
	// Bars are descending; walk backwards to build ascending output.
	for i := len(bars) - 1; i >= 0; i-- {
		b := bars[i]
		if !from.IsZero() && b.Date.Before(from) {
			continue
		}
		if !to.IsZero() && b.Date.After(to) {
			continue
		}
		if b.Close <= 0 {
			continue
		}
		points = append(points, models.PricePoint{
			Date:  b.Date.Format(models.DateLayout),
			Close: b.Close,
		})
	}
	return points
}

var _ interfaces.HistoryService = (*Service)(nil)
