package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies SNIPEBOT_* environment variable overrides, and
// returns the final Config. A missing file is not an error: the defaults run
// the demo mode as-is. The returned Config has NOT been validated; the caller
// should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known SNIPEBOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Strategy ──
	setStr(&cfg.Strategy.AssetID, "SNIPEBOT_STRATEGY_ASSET_ID")
	setFloat64(&cfg.Strategy.MaxSpreadPct, "SNIPEBOT_STRATEGY_MAX_SPREAD_PCT")
	setFloat64(&cfg.Strategy.MinOrderSize, "SNIPEBOT_STRATEGY_MIN_ORDER_SIZE")
	setFloat64(&cfg.Strategy.MaxOrderSize, "SNIPEBOT_STRATEGY_MAX_ORDER_SIZE")
	setInt(&cfg.Strategy.StaleThresholdSeconds, "SNIPEBOT_STRATEGY_STALE_THRESHOLD_SECONDS")
	setInt(&cfg.Strategy.BookDepth, "SNIPEBOT_STRATEGY_BOOK_DEPTH")

	// ── Fill ──
	setFloat64(&cfg.Fill.MaxSlippagePct, "SNIPEBOT_FILL_MAX_SLIPPAGE_PCT")
	setInt64(&cfg.Fill.FeeRateBps, "SNIPEBOT_FILL_FEE_RATE_BPS")

	// ── Feed ──
	setStr(&cfg.Feed.WsURL, "SNIPEBOT_FEED_WS_URL")
	setInt(&cfg.Feed.BufferSize, "SNIPEBOT_FEED_BUFFER_SIZE")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "SNIPEBOT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "SNIPEBOT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "SNIPEBOT_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "SNIPEBOT_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "SNIPEBOT_REDIS_MAX_RETRIES")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "SNIPEBOT_POSTGRES_DSN")
	setInt(&cfg.Postgres.PoolMaxConns, "SNIPEBOT_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "SNIPEBOT_POSTGRES_POOL_MIN_CONNS")

	// ── Top-level ──
	setStr(&cfg.Mode, "SNIPEBOT_MODE")
	setStr(&cfg.LogLevel, "SNIPEBOT_LOG_LEVEL")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
