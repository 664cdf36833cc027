package badger

import (
	"context"
	"fmt"

	"github.com/bobmcallan/yardstick/internal/common"
	"github.com/bobmcallan/yardstick/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

type marketDataStorage struct {
	store  *Store
	logger *common.Logger
}

// NewMarketDataStorage creates a new MarketDataStorage backed by BadgerHold.
func NewMarketDataStorage(store *Store, logger *common.Logger) *marketDataStorage {
	return &marketDataStorage{store: store, logger: logger}
}

func (s *marketDataStorage) GetMarketData(_ context.Context, symbol string) (*models.MarketData, error) {
	var data models.MarketData
	err := s.store.db.Get(symbol, &data)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("no market data for '%s'", symbol)
		}
		return nil, fmt.Errorf("failed to get market data for '%s': %w", symbol, err)
	}
	return &data, nil
}

func (s *marketDataStorage) SaveMarketData(_ context.Context, data *models.MarketData) error {
	if err := s.store.db.Upsert(data.Symbol, data); err != nil {
		return fmt.Errorf("failed to save market data for '%s': %w", data.Symbol, err)
	}
	s.logger.Debug().Str("symbol", data.Symbol).Int("bars", len(data.EOD)).Msg("Market data saved")
	return nil
}
