package feed

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polyquant/snipebot/internal/domain"
)

// heartbeatEvery interleaves a heartbeat after this many book updates so the
// demo exercises the staleness path.
const heartbeatEvery = 10

// MockFeed generates synthetic book updates for demonstration: prices
// fluctuate around a base price with the configured volatility, sides and
// sizes are random, sequence numbers are monotonic.
type MockFeed struct {
	assetID     string
	basePrice   decimal.Decimal
	volatility  decimal.Decimal
	interval    time.Duration
	maxMessages int
	sequence    uint64
	rng         *rand.Rand
	logger      *slog.Logger
}

// NewMockFeed creates a generator for assetID around basePrice. volatility is
// a fraction (0.01 means 1%); interval is the delay between events and
// maxMessages bounds the run.
func NewMockFeed(assetID string, basePrice, volatility decimal.Decimal, interval time.Duration, maxMessages int, logger *slog.Logger) *MockFeed {
	return &MockFeed{
		assetID:     assetID,
		basePrice:   basePrice,
		volatility:  volatility,
		interval:    interval,
		maxMessages: maxMessages,
		logger:      logger.With(slog.String("component", "mock_feed")),
	}
}

// SetRand replaces the random source, for deterministic runs.
func (m *MockFeed) SetRand(rng *rand.Rand) { m.rng = rng }

func (m *MockFeed) intN(n int) int {
	if m.rng != nil {
		return m.rng.IntN(n)
	}
	return rand.IntN(n)
}

// Generate produces the next synthetic book update.
func (m *MockFeed) Generate(now time.Time) domain.StreamEvent {
	m.sequence++

	// Price change in [-volatility, +volatility) of the base price.
	factor := decimal.NewFromInt(int64(m.intN(100) - 50)).Div(decimal.NewFromInt(100))
	change := factor.Mul(decimal.NewFromInt(2)).Mul(m.volatility)
	price := m.basePrice.Mul(decimal.NewFromInt(1).Add(change))

	side := domain.SideBuy
	if m.intN(2) == 0 {
		side = domain.SideSell
	}
	size := decimal.NewFromInt(int64(m.intN(1000) + 100))

	return domain.BookUpdateEvent(domain.OrderDelta{
		AssetID:   m.assetID,
		Timestamp: now,
		Side:      side,
		Price:     price,
		Size:      size,
		Sequence:  m.sequence,
	})
}

// Run emits synthetic events into out, one per interval, until maxMessages
// have been produced or ctx is cancelled. Every heartbeatEvery updates it
// emits a heartbeat as a live feed's keep-alive would.
func (m *MockFeed) Run(ctx context.Context, out chan<- domain.StreamEvent) error {
	m.logger.Info("mock feed started",
		slog.String("asset_id", m.assetID),
		slog.String("base_price", m.basePrice.String()),
		slog.Int("max_messages", m.maxMessages),
	)
	defer close(out)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for sent := 0; sent < m.maxMessages; sent++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			select {
			case out <- m.Generate(now):
			case <-ctx.Done():
				return ctx.Err()
			}
			if (sent+1)%heartbeatEvery == 0 {
				select {
				case out <- domain.HeartbeatEvent(now):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	m.logger.Info("mock feed finished", slog.Int("messages", m.maxMessages))
	return nil
}
