// Package interfaces defines service contracts for Yardstick
package interfaces

import (
	"context"

	"github.com/bobmcallan/yardstick/internal/models"
)

// PortfolioStorage persists portfolio definitions.
type PortfolioStorage interface {
	SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error
	GetPortfolio(ctx context.Context, name string) (*models.Portfolio, error)
	ListPortfolios(ctx context.Context) ([]string, error)
	DeletePortfolio(ctx context.Context, name string) error
}

// MarketDataStorage caches fetched EOD series per symbol.
type MarketDataStorage interface {
	SaveMarketData(ctx context.Context, data *models.MarketData) error
	GetMarketData(ctx context.Context, symbol string) (*models.MarketData, error)
}

// StorageManager aggregates the storage areas and owns their lifecycle.
type StorageManager interface {
	PortfolioStorage() PortfolioStorage
	MarketDataStorage() MarketDataStorage
	Close() error
}
