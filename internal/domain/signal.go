package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpportunitySignal is emitted when the spread narrows below the configured
// threshold. It is advisory output for downstream consumers (signal bus,
// dashboards); the strategy acts on it internally.
type OpportunitySignal struct {
	AssetID   string          `json:"asset_id"`
	BestBid   decimal.Decimal `json:"best_bid"`
	BestAsk   decimal.Decimal `json:"best_ask"`
	SpreadPct decimal.Decimal `json:"spread_pct"`
	At        time.Time       `json:"at"`
}

// StaleWarning is emitted when the market-data feed has not refreshed within
// the configured window. Reactions (order cancellation, feed failover,
// position reduction) belong to a surrounding risk layer.
type StaleWarning struct {
	AssetID   string        `json:"asset_id"`
	Age       time.Duration `json:"age"`
	Threshold time.Duration `json:"threshold"`
	At        time.Time     `json:"at"`
}
