// Package fill simulates market-order execution against a reconstructed
// orderbook: it walks the opposite side best-first and reports fill status,
// volume-weighted average price, slippage, and taker fees.
package fill

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/polyquant/snipebot/internal/book"
	"github.com/polyquant/snipebot/internal/domain"
)

var (
	hundred     = decimal.NewFromInt(100)
	bpsPerWhole = decimal.NewFromInt(10000)
)

// Engine simulates market orders. The engine enforces a floor on order size,
// a hard cap on slippage, and charges a flat taker fee on filled notional.
type Engine struct {
	minOrderSize   decimal.Decimal
	maxSlippagePct decimal.Decimal
	feeRateBps     int64
}

// NewEngine creates an Engine. minOrderSize rejects dust orders,
// maxSlippagePct caps the deviation between top-of-book and average fill
// price in percent, and feeRateBps is the taker fee in basis points.
func NewEngine(minOrderSize, maxSlippagePct decimal.Decimal, feeRateBps int64) *Engine {
	return &Engine{
		minOrderSize:   minOrderSize,
		maxSlippagePct: maxSlippagePct,
		feeRateBps:     feeRateBps,
	}
}

// Simulate executes req against b and returns the fill outcome. Market
// conditions (empty side, dust order, excessive slippage) come back as a
// Rejected result whose Reason names the cause, with a nil error; an error is
// returned only for malformed requests, in which case no result is produced.
func (e *Engine) Simulate(req domain.MarketOrderRequest, b *book.Book) (domain.FillResult, error) {
	if !req.Side.Valid() {
		return domain.FillResult{}, fmt.Errorf("fill: side %q: %w", req.Side, domain.ErrInvalidOrder)
	}
	if !req.Amount.IsPositive() {
		return domain.FillResult{}, fmt.Errorf("fill: amount %s: %w", req.Amount, domain.ErrInvalidOrder)
	}

	if req.Amount.LessThan(e.minOrderSize) {
		return domain.FillResult{Status: domain.FillStatusRejected, Reason: domain.ErrOrderTooSmall}, nil
	}

	// A BUY lifts asks, a SELL hits bids.
	var levels []domain.PriceLevel
	if req.Side == domain.SideBuy {
		levels = b.Asks()
	} else {
		levels = b.Bids()
	}
	if len(levels) == 0 {
		return domain.FillResult{Status: domain.FillStatusRejected, Reason: domain.ErrEmptyBook}, nil
	}

	expected := levels[0].Price
	remaining := req.Amount
	filled := decimal.Zero
	notional := decimal.Zero

	for _, lvl := range levels {
		if remaining.IsZero() {
			break
		}
		take := lvl.Size
		if take.GreaterThan(remaining) {
			take = remaining
		}
		filled = filled.Add(take)
		notional = notional.Add(take.Mul(lvl.Price))
		remaining = remaining.Sub(take)
	}

	if filled.IsZero() {
		return domain.FillResult{Status: domain.FillStatusRejected, Reason: domain.ErrEmptyBook}, nil
	}

	avgPrice := notional.Div(filled)
	slippagePct := decimal.Zero
	if expected.IsPositive() {
		slippagePct = avgPrice.Sub(expected).Abs().Div(expected).Mul(hundred)
	}

	tolerance := e.maxSlippagePct
	if req.SlippageTolerance.IsPositive() && req.SlippageTolerance.LessThan(tolerance) {
		tolerance = req.SlippageTolerance
	}
	if slippagePct.GreaterThan(tolerance) {
		return domain.FillResult{
			Status:       domain.FillStatusRejected,
			AveragePrice: avgPrice,
			SlippagePct:  slippagePct,
			Reason:       domain.ErrSlippageExceeded,
		}, nil
	}

	status := domain.FillStatusFilled
	if remaining.IsPositive() {
		status = domain.FillStatusPartiallyFilled
	}

	return domain.FillResult{
		Status:       status,
		TotalSize:    filled,
		AveragePrice: avgPrice,
		SlippagePct:  slippagePct,
		Fee:          notional.Mul(decimal.NewFromInt(e.feeRateBps)).Div(bpsPerWhole),
	}, nil
}
