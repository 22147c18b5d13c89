package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown mode", func(c *Config) { c.Mode = "backtest" }},
		{"missing asset", func(c *Config) { c.Strategy.AssetID = "" }},
		{"zero spread", func(c *Config) { c.Strategy.MaxSpreadPct = 0 }},
		{"zero min size", func(c *Config) { c.Strategy.MinOrderSize = 0 }},
		{"max below min", func(c *Config) { c.Strategy.MaxOrderSize = 5 }},
		{"negative stale threshold", func(c *Config) { c.Strategy.StaleThresholdSeconds = -1 }},
		{"zero book depth", func(c *Config) { c.Strategy.BookDepth = 0 }},
		{"zero slippage cap", func(c *Config) { c.Fill.MaxSlippagePct = 0 }},
		{"negative fee", func(c *Config) { c.Fill.FeeRateBps = -1 }},
		{"live without ws url", func(c *Config) { c.Mode = "live"; c.Feed.WsURL = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
mode = "demo"

[strategy]
asset_id = "98765"
max_spread_pct = 1.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "98765", cfg.Strategy.AssetID)
	assert.Equal(t, 1.5, cfg.Strategy.MaxSpreadPct)
	// Untouched fields keep their defaults.
	assert.Equal(t, 100.0, cfg.Strategy.MaxOrderSize)
	assert.Equal(t, int64(5), cfg.Fill.FeeRateBps)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, Defaults(), *cfg)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("mode = \"demo\"\n"), 0o644))

	t.Setenv("SNIPEBOT_STRATEGY_ASSET_ID", "env-asset")
	t.Setenv("SNIPEBOT_STRATEGY_MAX_SPREAD_PCT", "3.5")
	t.Setenv("SNIPEBOT_REDIS_ADDR", "redis:6379")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-asset", cfg.Strategy.AssetID)
	assert.Equal(t, 3.5, cfg.Strategy.MaxSpreadPct)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestStrategyConfigDecimalAccessors(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "2", cfg.Strategy.MaxSpread().String())
	assert.Equal(t, "10", cfg.Strategy.MinSize().String())
	assert.Equal(t, "100", cfg.Strategy.MaxSize().String())
	assert.Equal(t, 5.0, cfg.Strategy.StaleThreshold().Seconds())
}
