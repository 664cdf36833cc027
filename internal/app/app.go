// Package app wires configuration, storage, clients, and services into a
// single core shared by the server binary and the tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/yardstick/internal/clients/eodhd"
	"github.com/bobmcallan/yardstick/internal/clients/fx"
	"github.com/bobmcallan/yardstick/internal/common"
	"github.com/bobmcallan/yardstick/internal/interfaces"
	"github.com/bobmcallan/yardstick/internal/services/compare"
	"github.com/bobmcallan/yardstick/internal/services/history"
	"github.com/bobmcallan/yardstick/internal/services/valuation"
	"github.com/bobmcallan/yardstick/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	MarketClient     interfaces.MarketDataClient
	FXClient         interfaces.FXClient
	HistoryService   interfaces.HistoryService
	ValuationService interfaces.ValuationService
	CompareService   interfaces.CompareService
	StartupTime      time.Time

	schedulerCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services from configuration.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Check provided path, YARDSTICK_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("YARDSTICK_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "yardstick.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/yardstick.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if config.Clients.EODHD.APIKey == "" {
		logger.Warn().Msg("EODHD API key not configured - benchmark data fetches will fail")
	}

	marketClient := eodhd.NewClient(config.Clients.EODHD.APIKey,
		eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
		eodhd.WithLogger(logger),
		eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
		eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
	)

	rateCache := fx.NewTTLCache(config.Clients.FX.GetCacheTTL(), nil)
	fxClient := fx.NewClient(rateCache,
		fx.WithBaseURL(config.Clients.FX.BaseURL),
		fx.WithLogger(logger),
		fx.WithTimeout(config.Clients.FX.GetTimeout()),
	)

	historyService := history.NewService(storageManager, marketClient, logger)
	valuationService := valuation.NewService(storageManager, historyService, fxClient, logger)
	compareService := compare.NewService(valuationService, historyService, config.Compare, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		MarketClient:     marketClient,
		FXClient:         fxClient,
		HistoryService:   historyService,
		ValuationService: valuationService,
		CompareService:   compareService,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
// Shutdown order: cancel scheduler, close storage.
func (a *App) Close() {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
		a.schedulerCancel = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

// StartBenchmarkScheduler launches the background benchmark refresh goroutine.
func (a *App) StartBenchmarkScheduler() {
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	a.schedulerCancel = schedulerCancel
	go startBenchmarkScheduler(schedulerCtx, a.HistoryService, a.Logger, common.FreshnessBenchmark)
}
