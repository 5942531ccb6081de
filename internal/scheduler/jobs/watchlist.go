package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/callsight/internal/alerts"
	"github.com/wonny/callsight/internal/contracts"
	"github.com/wonny/callsight/internal/screen"
	"github.com/wonny/callsight/pkg/logger"
)

// Screener runs one screen invocation. Satisfied by screen.Orchestrator.
type Screener interface {
	Run(ctx context.Context, symbol string, opts screen.Options) (*contracts.ScreenResult, error)
}

// WatchlistRescanJob periodically rescreens the configured watchlist
// and publishes each symbol's top pick to the alert feed.
// SSOT: 워치리스트 재스캔은 이 Job에서만
type WatchlistRescanJob struct {
	screener Screener
	hub      *alerts.Hub
	symbols  []string
	schedule string
	opts     screen.Options
	logger   *logger.Logger
}

// NewWatchlistRescanJob creates a new watchlist rescan job
func NewWatchlistRescanJob(
	screener Screener,
	hub *alerts.Hub,
	symbols []string,
	schedule string,
	opts screen.Options,
	log *logger.Logger,
) *WatchlistRescanJob {
	return &WatchlistRescanJob{
		screener: screener,
		hub:      hub,
		symbols:  symbols,
		schedule: schedule,
		opts:     opts,
		logger:   log,
	}
}

// Name returns the job name
func (j *WatchlistRescanJob) Name() string {
	return "watchlist_rescan"
}

// Schedule returns the cron schedule expression
func (j *WatchlistRescanJob) Schedule() string {
	return j.schedule
}

// Run rescreens every watchlist symbol. One symbol failing never stops
// the rest; the job fails only when every symbol failed.
func (j *WatchlistRescanJob) Run(ctx context.Context) error {
	failed := 0

	for _, symbol := range j.symbols {
		result, err := j.screener.Run(ctx, symbol, j.opts)
		if err != nil {
			failed++
			j.logger.WithError(err).WithField("symbol", symbol).Warn("Watchlist rescan failed for symbol")
			continue
		}

		if len(result.Ranked) == 0 {
			j.logger.WithField("symbol", symbol).Debug("Watchlist rescan found no contracts")
			continue
		}

		j.hub.Publish(topPickAlert(symbol, result.Ranked[0]))
	}

	j.logger.WithFields(map[string]interface{}{
		"symbols": len(j.symbols),
		"failed":  failed,
	}).Info("Watchlist rescan completed")

	if failed == len(j.symbols) && failed > 0 {
		return fmt.Errorf("all %d watchlist symbols failed", failed)
	}
	return nil
}

// topPickAlert renders a ranked contract as a feed entry.
func topPickAlert(symbol string, top contracts.ScoredContract) alerts.Alert {
	return alerts.NewAlert(fmt.Sprintf("📊 %s top call %dC %s · Score %s", symbol, top.RoundedStrike(), top.Expiry, top.ScoreString()))
}
