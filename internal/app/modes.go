package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/polyquant/snipebot/internal/domain"
	"github.com/polyquant/snipebot/internal/feed"
	"github.com/polyquant/snipebot/internal/strategy"
)

// statsLogEvery is how many processed events pass between demo-mode stats
// reports.
const statsLogEvery = 10

// buildHooks routes strategy output to whichever sinks were wired. Sink
// failures are logged, never propagated: advisory output must not abort
// event processing.
func buildHooks(deps *Dependencies, logger *slog.Logger) strategy.Hooks {
	log := logger.With(slog.String("component", "hooks"))
	return strategy.Hooks{
		OnOpportunity: func(ctx context.Context, sig domain.OpportunitySignal) {
			if deps.SignalBus == nil {
				return
			}
			if err := deps.SignalBus.PublishOpportunity(ctx, sig); err != nil {
				log.Warn("publish opportunity failed", slog.String("error", err.Error()))
			}
		},
		OnStale: func(ctx context.Context, warn domain.StaleWarning) {
			if deps.SignalBus == nil {
				return
			}
			if err := deps.SignalBus.PublishStale(ctx, warn); err != nil {
				log.Warn("publish stale warning failed", slog.String("error", err.Error()))
			}
		},
		OnExecution: func(ctx context.Context, exec domain.Execution) {
			if deps.ExecRecorder == nil {
				return
			}
			if err := deps.ExecRecorder.Record(ctx, exec); err != nil {
				log.Warn("record execution failed",
					slog.String("client_id", exec.ClientID),
					slog.String("error", err.Error()),
				)
			}
		},
	}
}

// DemoMode runs the strategy against the synthetic market-data generator
// until the generator finishes or the context is cancelled, then logs final
// statistics.
func (a *App) DemoMode(ctx context.Context, deps *Dependencies) error {
	runID := uuid.NewString()
	a.logger.InfoContext(ctx, "starting demo mode", slog.String("run_id", runID))

	mock := feed.NewMockFeed(
		a.cfg.Strategy.AssetID,
		decimal.NewFromFloat(a.cfg.Feed.MockBasePrice),
		decimal.NewFromFloat(a.cfg.Feed.MockVolatilityPct).Div(decimal.NewFromInt(100)),
		time.Duration(a.cfg.Feed.MockIntervalMS)*time.Millisecond,
		a.cfg.Feed.MockMaxMessages,
		a.logger,
	)

	feeder := feed.NewFeeder(deps.Snipe, a.logger)
	feeder.OnEvent = func(processed int) {
		if processed%statsLogEvery == 0 {
			a.logStats(ctx, deps.Snipe.Stats())
		}
	}

	events := make(chan domain.StreamEvent, a.cfg.Feed.BufferSize)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return mock.Run(gctx, events) })
	g.Go(func() error { return feeder.Run(gctx, events) })

	err := g.Wait()
	a.logFinalStats(ctx, deps.Snipe.Stats())
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// LiveMode runs the strategy against the live WebSocket feed until the
// context is cancelled.
func (a *App) LiveMode(ctx context.Context, deps *Dependencies) error {
	runID := uuid.NewString()
	a.logger.InfoContext(ctx, "starting live mode",
		slog.String("run_id", runID),
		slog.String("ws_url", a.cfg.Feed.WsURL),
	)

	wsFeed := feed.NewWSFeed(a.cfg.Feed.WsURL, a.cfg.Strategy.AssetID, a.logger)
	feeder := feed.NewFeeder(deps.Snipe, a.logger)

	events := make(chan domain.StreamEvent, a.cfg.Feed.BufferSize)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return wsFeed.Run(gctx, events) })
	g.Go(func() error { return feeder.Run(gctx, events) })

	err := g.Wait()
	a.logFinalStats(ctx, deps.Snipe.Stats())
	return err
}

func (a *App) logStats(ctx context.Context, stats strategy.Stats) {
	a.logger.InfoContext(ctx, "strategy stats",
		slog.Uint64("opportunities_detected", stats.OpportunitiesDetected),
		slog.Uint64("orders_placed", stats.OrdersPlaced),
		slog.Uint64("orders_filled", stats.OrdersFilled),
		slog.Float64("avg_fill_time_ms", stats.AvgFillTimeMS),
	)
}

func (a *App) logFinalStats(ctx context.Context, stats strategy.Stats) {
	a.logger.InfoContext(ctx, "final strategy stats",
		slog.Uint64("opportunities_detected", stats.OpportunitiesDetected),
		slog.Uint64("orders_placed", stats.OrdersPlaced),
		slog.Uint64("orders_filled", stats.OrdersFilled),
		slog.String("total_volume", stats.TotalVolume.String()),
		slog.String("total_pnl", stats.TotalPnL.String()),
		slog.Float64("avg_fill_time_ms", stats.AvgFillTimeMS),
	)
}
