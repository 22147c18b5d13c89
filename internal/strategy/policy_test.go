package strategy

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/polyquant/snipebot/internal/domain"
)

// fractionSizePolicy applies a fixed draw r, for exercising the sizing law
// with chosen values.
type fractionSizePolicy struct {
	r decimal.Decimal
}

func (p fractionSizePolicy) Size(min, max decimal.Decimal) decimal.Decimal {
	return min.Add(max.Sub(min).Mul(p.r))
}

func TestSizingLawAtChosenDraws(t *testing.T) {
	min, max := dec("10"), dec("100")

	cases := []struct {
		r    string
		want string
	}{
		{"0", "10"},
		{"0.5", "55"},
		{"0.999", "99.91"},
	}
	for _, c := range cases {
		got := fractionSizePolicy{r: dec(c.r)}.Size(min, max)
		assert.True(t, got.Equal(dec(c.want)), "r=%s: got %s want %s", c.r, got, c.want)
		assert.True(t, got.GreaterThanOrEqual(min))
		assert.True(t, got.LessThanOrEqual(max))
	}
}

func TestRandomSizePolicyStaysInBounds(t *testing.T) {
	p := NewRandomSizePolicy(rand.New(rand.NewPCG(1, 2)))
	min, max := dec("10"), dec("100")

	for i := 0; i < 1000; i++ {
		size := p.Size(min, max)
		assert.True(t, size.GreaterThanOrEqual(min), "size %s below min", size)
		assert.True(t, size.LessThanOrEqual(max), "size %s above max", size)
	}
}

func TestRandomSizePolicyDegenerateRange(t *testing.T) {
	p := NewRandomSizePolicy(rand.New(rand.NewPCG(3, 4)))

	size := p.Size(dec("25"), dec("25"))
	assert.True(t, size.Equal(dec("25")))
}

func TestSpreadSidePolicy(t *testing.T) {
	var p SpreadSidePolicy

	// Normal market: always take the buy side.
	assert.Equal(t, domain.SideBuy, p.Side(dec("0.50"), dec("0.51")))
	// Locked market.
	assert.Equal(t, domain.SideBuy, p.Side(dec("0.50"), dec("0.50")))
	// Crossed market: sell.
	assert.Equal(t, domain.SideSell, p.Side(dec("0.52"), dec("0.50")))
}
