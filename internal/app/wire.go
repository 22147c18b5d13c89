package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/polyquant/snipebot/internal/book"
	"github.com/polyquant/snipebot/internal/cache/redis"
	"github.com/polyquant/snipebot/internal/config"
	"github.com/polyquant/snipebot/internal/fill"
	"github.com/polyquant/snipebot/internal/store/postgres"
	"github.com/polyquant/snipebot/internal/strategy"
)

// Dependencies bundles everything the run modes need. It is constructed by
// Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Books  *book.Manager
	Engine *fill.Engine
	Snipe  *strategy.Snipe

	// Optional sinks; nil when not configured.
	SignalBus    *redis.SignalBus
	ExecRecorder *ExecutionRecorder
}

// Wire constructs all concrete dependencies from the given configuration and
// returns them together with a cleanup function to be called on shutdown.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	deps.Books = book.NewManager(cfg.Strategy.BookDepth)
	deps.Engine = fill.NewEngine(
		cfg.Strategy.MinSize(),
		cfg.Fill.MaxSlippage(),
		cfg.Fill.FeeRateBps,
	)
	deps.Snipe = strategy.New(strategy.Config{
		AssetID:        cfg.Strategy.AssetID,
		MaxSpreadPct:   cfg.Strategy.MaxSpread(),
		MinOrderSize:   cfg.Strategy.MinSize(),
		MaxOrderSize:   cfg.Strategy.MaxSize(),
		StaleThreshold: cfg.Strategy.StaleThreshold(),
	}, deps.Books, deps.Engine, logger)

	// --- Redis signal bus (optional) ---
	if cfg.Redis.Addr != "" {
		rdb, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
		deps.SignalBus = redis.NewSignalBus(rdb)
	}

	// --- PostgreSQL execution store (optional) ---
	if cfg.Postgres.DSN != "" {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		store := postgres.NewExecutionStore(pgClient.Pool())
		if err := store.EnsureSchema(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres schema: %w", err)
		}
		deps.ExecRecorder = newExecutionRecorder(store)
		closers = append(closers, func() {
			if err := deps.ExecRecorder.Flush(context.Background()); err != nil {
				logger.Warn("flush buffered executions failed", slog.String("error", err.Error()))
			}
		})
	}

	deps.Snipe.SetHooks(buildHooks(deps, logger))

	return deps, cleanup, nil
}
