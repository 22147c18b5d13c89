package strategy

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// SpreadPct computes the bid/ask spread as a percentage of the best bid:
// (ask - bid) / bid * 100. It reports ok=false for a non-positive bid or a
// crossed/locked market (ask <= bid); those are invalid data, not
// opportunities.
func SpreadPct(bid, ask decimal.Decimal) (decimal.Decimal, bool) {
	if !bid.IsPositive() || ask.Cmp(bid) <= 0 {
		return decimal.Zero, false
	}
	return ask.Sub(bid).Div(bid).Mul(hundred), true
}
