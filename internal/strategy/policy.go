package strategy

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/polyquant/snipebot/internal/domain"
)

// SizePolicy picks an order size within [min, max]. Implementations must
// return a value in that range for any inputs with min <= max.
type SizePolicy interface {
	Size(min, max decimal.Decimal) decimal.Decimal
}

// SidePolicy picks the order side from the current top of book.
type SidePolicy interface {
	Side(bestBid, bestAsk decimal.Decimal) domain.Side
}

// randomGranularity gives the uniform draw four decimal places.
const randomGranularity = 10000

// RandomSizePolicy draws min + (max-min)*r with r uniform in [0, 1). It
// models variable position sizing and stands in for a real sizing policy.
type RandomSizePolicy struct {
	rng *rand.Rand
}

// NewRandomSizePolicy creates a RandomSizePolicy. A nil source uses the
// shared global generator.
func NewRandomSizePolicy(rng *rand.Rand) *RandomSizePolicy {
	return &RandomSizePolicy{rng: rng}
}

// Size returns a draw in [min, max].
func (p *RandomSizePolicy) Size(min, max decimal.Decimal) decimal.Decimal {
	var n int64
	if p.rng != nil {
		n = int64(p.rng.IntN(randomGranularity))
	} else {
		n = int64(rand.IntN(randomGranularity))
	}
	r := decimal.NewFromInt(n).Div(decimal.NewFromInt(randomGranularity))
	return min.Add(max.Sub(min).Mul(r))
}

// SpreadSidePolicy sells into a crossed book (bid above ask, abnormal data)
// and buys otherwise. Always taking the buy side in a normal narrow-spread
// market is a deliberate simplification, kept behind this interface so a
// two-sided rule can replace it.
type SpreadSidePolicy struct{}

// Side returns SELL iff the book is crossed.
func (SpreadSidePolicy) Side(bestBid, bestAsk decimal.Decimal) domain.Side {
	if bestBid.GreaterThan(bestAsk) {
		return domain.SideSell
	}
	return domain.SideBuy
}

// FixedSizePolicy always returns the same size. Used by tests and by
// operators who want deterministic sizing.
type FixedSizePolicy struct {
	Value decimal.Decimal
}

// Size returns the fixed value.
func (p FixedSizePolicy) Size(_, _ decimal.Decimal) decimal.Decimal { return p.Value }
