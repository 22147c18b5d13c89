// Package config defines the top-level configuration for the snipe bot and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by SNIPEBOT_* environment
// variables.
type Config struct {
	Strategy StrategyConfig `toml:"strategy"`
	Fill     FillConfig     `toml:"fill"`
	Feed     FeedConfig     `toml:"feed"`
	Redis    RedisConfig    `toml:"redis"`
	Postgres PostgresConfig `toml:"postgres"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// StrategyConfig holds the snipe strategy parameters.
type StrategyConfig struct {
	// AssetID is the single instrument the strategy trades.
	AssetID string `toml:"asset_id"`
	// MaxSpreadPct is the widest spread, in percent, still taken (inclusive).
	MaxSpreadPct float64 `toml:"max_spread_pct"`
	// MinOrderSize / MaxOrderSize bound synthesized order sizes.
	MinOrderSize float64 `toml:"min_order_size"`
	MaxOrderSize float64 `toml:"max_order_size"`
	// StaleThresholdSeconds is how old the feed may grow before it is
	// reported stale.
	StaleThresholdSeconds int `toml:"stale_threshold_seconds"`
	// BookDepth is the number of price levels retained per book side.
	BookDepth int `toml:"book_depth"`
}

// MaxSpread returns the spread threshold as an exact decimal.
func (c StrategyConfig) MaxSpread() decimal.Decimal { return decimal.NewFromFloat(c.MaxSpreadPct) }

// MinSize returns the minimum order size as an exact decimal.
func (c StrategyConfig) MinSize() decimal.Decimal { return decimal.NewFromFloat(c.MinOrderSize) }

// MaxSize returns the maximum order size as an exact decimal.
func (c StrategyConfig) MaxSize() decimal.Decimal { return decimal.NewFromFloat(c.MaxOrderSize) }

// StaleThreshold returns the staleness window as a duration.
func (c StrategyConfig) StaleThreshold() time.Duration {
	return time.Duration(c.StaleThresholdSeconds) * time.Second
}

// FillConfig holds the execution-simulator parameters.
type FillConfig struct {
	// MaxSlippagePct is the engine's hard cap on slippage in percent.
	MaxSlippagePct float64 `toml:"max_slippage_pct"`
	// FeeRateBps is the simulated taker fee in basis points.
	FeeRateBps int64 `toml:"fee_rate_bps"`
}

// MaxSlippage returns the slippage cap as an exact decimal.
func (c FillConfig) MaxSlippage() decimal.Decimal { return decimal.NewFromFloat(c.MaxSlippagePct) }

// FeedConfig holds market-data transport parameters for both the live
// WebSocket feed and the demo generator.
type FeedConfig struct {
	WsURL string `toml:"ws_url"`
	// BufferSize is the event channel capacity between feed and strategy.
	BufferSize int `toml:"buffer_size"`

	// Demo-mode generator parameters.
	MockBasePrice     float64 `toml:"mock_base_price"`
	MockVolatilityPct float64 `toml:"mock_volatility_pct"`
	MockIntervalMS    int     `toml:"mock_interval_ms"`
	MockMaxMessages   int     `toml:"mock_max_messages"`
}

// RedisConfig holds Redis connection parameters. An empty Addr disables the
// signal bus.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
}

// PostgresConfig holds PostgreSQL connection parameters. An empty DSN
// disables execution recording.
type PostgresConfig struct {
	DSN          string `toml:"dsn"`
	PoolMaxConns int    `toml:"pool_max_conns"`
	PoolMinConns int    `toml:"pool_min_conns"`
}

// Defaults returns the built-in configuration, matching the canonical demo
// parameters: 2% max spread, $10-$100 orders, 5 second staleness window.
func Defaults() Config {
	return Config{
		Strategy: StrategyConfig{
			AssetID:               "12345",
			MaxSpreadPct:          2.0,
			MinOrderSize:          10,
			MaxOrderSize:          100,
			StaleThresholdSeconds: 5,
			BookDepth:             100,
		},
		Fill: FillConfig{
			MaxSlippagePct: 2.0,
			FeeRateBps:     5,
		},
		Feed: FeedConfig{
			WsURL:             "wss://ws-subscriptions-clob.polymarket.com/ws/market",
			BufferSize:        256,
			MockBasePrice:     0.5,
			MockVolatilityPct: 1.0,
			MockIntervalMS:    100,
			MockMaxMessages:   100,
		},
		Redis: RedisConfig{
			PoolSize:   20,
			MaxRetries: 3,
		},
		Postgres: PostgresConfig{
			PoolMaxConns: 10,
			PoolMinConns: 2,
		},
		Mode:     "demo",
		LogLevel: "info",
	}
}

// Validate checks the configuration for inconsistencies. It returns an error
// describing the first problem found.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Mode) {
	case "demo", "live":
	default:
		return fmt.Errorf("config: unsupported mode %q", c.Mode)
	}
	if c.Strategy.AssetID == "" {
		return fmt.Errorf("config: strategy.asset_id is required")
	}
	if c.Strategy.MaxSpreadPct <= 0 {
		return fmt.Errorf("config: strategy.max_spread_pct must be positive")
	}
	if c.Strategy.MinOrderSize <= 0 {
		return fmt.Errorf("config: strategy.min_order_size must be positive")
	}
	if c.Strategy.MaxOrderSize < c.Strategy.MinOrderSize {
		return fmt.Errorf("config: strategy.max_order_size must be >= min_order_size")
	}
	if c.Strategy.StaleThresholdSeconds < 0 {
		return fmt.Errorf("config: strategy.stale_threshold_seconds must be >= 0")
	}
	if c.Strategy.BookDepth <= 0 {
		return fmt.Errorf("config: strategy.book_depth must be positive")
	}
	if c.Fill.MaxSlippagePct <= 0 {
		return fmt.Errorf("config: fill.max_slippage_pct must be positive")
	}
	if c.Fill.FeeRateBps < 0 {
		return fmt.Errorf("config: fill.fee_rate_bps must be >= 0")
	}
	if strings.ToLower(c.Mode) == "live" && c.Feed.WsURL == "" {
		return fmt.Errorf("config: feed.ws_url is required in live mode")
	}
	if c.Feed.BufferSize <= 0 {
		return fmt.Errorf("config: feed.buffer_size must be positive")
	}
	return nil
}
