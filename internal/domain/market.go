package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of an order or book level.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Valid reports whether the side is one of the two known values.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// PriceLevel is a single price+size entry in an orderbook.
type PriceLevel struct {
	Price decimal.Decimal
	Size  decimal.Decimal
}

// OrderDelta is an incremental orderbook level update. Size zero removes the
// level at Price; any other size replaces it. Sequence is a per-feed
// monotonically non-decreasing counter used by the book to drop out-of-order
// replays.
type OrderDelta struct {
	AssetID   string
	Timestamp time.Time
	Side      Side
	Price     decimal.Decimal
	Size      decimal.Decimal
	Sequence  uint64
}

// OrderbookSnapshot is a point-in-time copy of bids and asks for an asset.
// Bids are ordered best-first (descending price), asks likewise (ascending).
type OrderbookSnapshot struct {
	AssetID   string
	Bids      []PriceLevel
	Asks      []PriceLevel
	Timestamp time.Time
}

// BestBid returns the top bid level, if any.
func (s OrderbookSnapshot) BestBid() (PriceLevel, bool) {
	if len(s.Bids) == 0 {
		return PriceLevel{}, false
	}
	return s.Bids[0], true
}

// BestAsk returns the top ask level, if any.
func (s OrderbookSnapshot) BestAsk() (PriceLevel, bool) {
	if len(s.Asks) == 0 {
		return PriceLevel{}, false
	}
	return s.Asks[0], true
}

// TradeFill is an observed market trade execution for an asset.
type TradeFill struct {
	AssetID   string
	Side      Side
	Price     decimal.Decimal
	Size      decimal.Decimal
	Timestamp time.Time
}
