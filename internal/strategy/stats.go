package strategy

import (
	"github.com/shopspring/decimal"

	"github.com/polyquant/snipebot/internal/domain"
)

// Stats accumulates the strategy's running performance counters. All counters
// are monotonically non-decreasing except AvgFillTimeMS, a running mean over
// filled orders only.
type Stats struct {
	OpportunitiesDetected uint64
	OrdersPlaced          uint64
	OrdersFilled          uint64
	TotalVolume           decimal.Decimal
	// TotalPnL is carried for completeness but never accumulated: fills are
	// not attributed to the strategy's own orders here. A surrounding
	// accounting layer that tracks order IDs owns PnL.
	TotalPnL      decimal.Decimal
	AvgFillTimeMS float64
}

// RecordOpportunity counts one detected spread opportunity.
func (s *Stats) RecordOpportunity() {
	s.OpportunitiesDetected++
}

// RecordExecution folds one completed simulation attempt into the counters.
// OrdersPlaced increments unconditionally; OrdersFilled and the fill-time
// mean update only for a fully filled result, so the mean's denominator is
// the fill count and is never zero:
//
//	new_avg = (old_avg*(filled-1) + latency) / filled
func (s *Stats) RecordExecution(res domain.FillResult, latencyMS float64) {
	s.OrdersPlaced++
	if res.Status != domain.FillStatusFilled {
		return
	}
	s.OrdersFilled++
	n := float64(s.OrdersFilled)
	s.AvgFillTimeMS = (s.AvgFillTimeMS*(n-1) + latencyMS) / n
}

// RecordTrade accumulates the size of an observed market trade. All trades
// for the instrument count, not only the strategy's own fills.
func (s *Stats) RecordTrade(size decimal.Decimal) {
	s.TotalVolume = s.TotalVolume.Add(size)
}
