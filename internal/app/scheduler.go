package app

import (
	"context"
	"time"

	"github.com/bobmcallan/yardstick/internal/common"
	"github.com/bobmcallan/yardstick/internal/interfaces"
	"github.com/bobmcallan/yardstick/internal/models"
)

// startBenchmarkScheduler refreshes cached benchmark series on a fixed
// interval so comparisons hit warm data during market hours.
func startBenchmarkScheduler(ctx context.Context, historyService interfaces.HistoryService, logger *common.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Benchmark scheduler: stopped")
			return
		case <-ticker.C:
			refreshBenchmarks(ctx, historyService, logger)
		}
	}
}

func refreshBenchmarks(ctx context.Context, historyService interfaces.HistoryService, logger *common.Logger) {
	start := time.Now()

	refreshed := 0
	for _, bench := range models.Benchmarks() {
		if err := historyService.RefreshSymbol(ctx, bench.Symbol); err != nil {
			logger.Warn().Err(err).Str("symbol", bench.Symbol).Msg("Benchmark refresh: fetch failed")
			continue
		}
		refreshed++
	}

	logger.Info().
		Int("refreshed", refreshed).
		Dur("elapsed", time.Since(start)).
		Msg("Benchmark refresh: complete")
}
