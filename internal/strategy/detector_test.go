package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSpreadPctExact(t *testing.T) {
	// bid=0.50, ask=0.51 -> (0.01/0.50)*100 = 2.0 exactly.
	spread, ok := SpreadPct(dec("0.50"), dec("0.51"))
	require.True(t, ok)
	assert.True(t, spread.Equal(dec("2")), "spread was %s", spread)

	spread, ok = SpreadPct(dec("0.50"), dec("0.52"))
	require.True(t, ok)
	assert.True(t, spread.Equal(dec("4")), "spread was %s", spread)
}

func TestSpreadPctNonNegative(t *testing.T) {
	cases := [][2]string{
		{"0.01", "0.011"},
		{"0.50", "0.51"},
		{"100", "100.0001"},
		{"0.333", "0.999"},
	}
	for _, c := range cases {
		spread, ok := SpreadPct(dec(c[0]), dec(c[1]))
		require.True(t, ok, "bid=%s ask=%s", c[0], c[1])
		assert.False(t, spread.IsNegative())
	}
}

func TestSpreadPctInvalidMarkets(t *testing.T) {
	// Non-positive bid.
	_, ok := SpreadPct(dec("0"), dec("0.51"))
	assert.False(t, ok)
	_, ok = SpreadPct(dec("-0.50"), dec("0.51"))
	assert.False(t, ok)

	// Locked market (ask == bid).
	_, ok = SpreadPct(dec("0.50"), dec("0.50"))
	assert.False(t, ok)

	// Crossed market (bid > ask).
	_, ok = SpreadPct(dec("0.52"), dec("0.50"))
	assert.False(t, ok)
}
