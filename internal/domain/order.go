package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketOrderRequest is a synthetic market order built for simulation. It is
// never submitted to a real venue.
type MarketOrderRequest struct {
	AssetID string
	Side    Side
	// Amount is the requested size in instrument units.
	Amount decimal.Decimal
	// SlippageTolerance bounds the acceptable deviation, in percent, between
	// the top-of-book price and the simulated average fill price. Zero means
	// the engine default applies.
	SlippageTolerance decimal.Decimal
	// ClientID identifies the order for traceability.
	ClientID string
}

// FillStatus is the outcome of a simulated execution.
type FillStatus string

const (
	FillStatusFilled          FillStatus = "FILLED"
	FillStatusPartiallyFilled FillStatus = "PARTIALLY_FILLED"
	FillStatusRejected        FillStatus = "REJECTED"
)

// FillResult is the outcome of simulating a market order against a book.
type FillResult struct {
	Status FillStatus
	// TotalSize is the size actually consumed from the book.
	TotalSize decimal.Decimal
	// AveragePrice is the size-weighted average price across consumed levels.
	AveragePrice decimal.Decimal
	// SlippagePct is the percent deviation of AveragePrice from top-of-book.
	SlippagePct decimal.Decimal
	// Fee is the simulated taker fee on the filled notional.
	Fee decimal.Decimal
	// Reason explains a rejection (ErrOrderTooSmall, ErrEmptyBook,
	// ErrSlippageExceeded). Nil unless Status is REJECTED.
	Reason error
}

// Execution records one simulated execution attempt end to end. It is the
// unit persisted by the execution store and forwarded to execution hooks.
type Execution struct {
	ClientID  string
	AssetID   string
	Side      Side
	Amount    decimal.Decimal
	Result    FillResult
	LatencyMS float64
	At        time.Time
}
