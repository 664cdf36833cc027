// Package storage wires the BadgerHold-backed storage areas behind the
// StorageManager interface.
package storage

import (
	"fmt"

	"github.com/bobmcallan/yardstick/internal/common"
	"github.com/bobmcallan/yardstick/internal/interfaces"
	"github.com/bobmcallan/yardstick/internal/storage/badger"
)

type manager struct {
	store      *badger.Store
	portfolios interfaces.PortfolioStorage
	marketData interfaces.MarketDataStorage
	logger     *common.Logger
}

// NewStorageManager opens the data directory and constructs the storage areas.
func NewStorageManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	store, err := badger.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage at %s: %w", config.Storage.Path, err)
	}

	return &manager{
		store:      store,
		portfolios: badger.NewPortfolioStorage(store, logger),
		marketData: badger.NewMarketDataStorage(store, logger),
		logger:     logger,
	}, nil
}

func (m *manager) PortfolioStorage() interfaces.PortfolioStorage {
	return m.portfolios
}

func (m *manager) MarketDataStorage() interfaces.MarketDataStorage {
	return m.marketData
}

func (m *manager) Close() error {
	m.logger.Debug().Msg("Closing storage")
	return m.store.Close()
}
