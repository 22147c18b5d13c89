// Package strategy implements the snipe strategy core: it watches a streaming
// orderbook for one asset, detects moments when the bid/ask spread narrows
// below a threshold, and reacts by synthesizing and simulating a market order
// to capture that spread.
package strategy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polyquant/snipebot/internal/book"
	"github.com/polyquant/snipebot/internal/domain"
	"github.com/polyquant/snipebot/internal/fill"
)

// defaultSlippageTolerancePct is the fixed tolerance attached to every
// synthesized order.
var defaultSlippageTolerancePct = decimal.NewFromInt(1)

// Config holds the immutable parameters of one Snipe instance.
type Config struct {
	// AssetID scopes the strategy to exactly one instrument for its lifetime.
	AssetID string
	// MaxSpreadPct is the widest spread, in percent of best bid, that still
	// counts as an opportunity. The boundary is inclusive.
	MaxSpreadPct decimal.Decimal
	// MinOrderSize and MaxOrderSize bound synthesized order sizes.
	MinOrderSize decimal.Decimal
	MaxOrderSize decimal.Decimal
	// StaleThreshold is how old the feed may grow before it is reported stale.
	StaleThreshold time.Duration
}

// Hooks receive advisory strategy output. All hooks are optional and must not
// block; the strategy calls them synchronously on its event path.
type Hooks struct {
	OnOpportunity func(ctx context.Context, sig domain.OpportunitySignal)
	OnStale       func(ctx context.Context, warn domain.StaleWarning)
	OnExecution   func(ctx context.Context, exec domain.Execution)
}

// Snipe is the strategy controller. It owns the last-seen top of book, the
// last update time, and the running statistics; all of that state mutates
// only inside ProcessEvent, which the caller must invoke from a single
// ordered event stream.
type Snipe struct {
	cfg    Config
	books  *book.Manager
	engine *fill.Engine

	sizePolicy SizePolicy
	sidePolicy SidePolicy
	monitor    *StalenessMonitor
	hooks      Hooks

	lastBestBid decimal.NullDecimal
	lastBestAsk decimal.NullDecimal
	lastUpdate  time.Time

	stats   Stats
	nowFunc func() time.Time
	logger  *slog.Logger
}

// New creates a Snipe wired to the given book manager and execution engine,
// with the default random sizing and spread-based side selection.
func New(cfg Config, books *book.Manager, engine *fill.Engine, logger *slog.Logger) *Snipe {
	return &Snipe{
		cfg:        cfg,
		books:      books,
		engine:     engine,
		sizePolicy: NewRandomSizePolicy(nil),
		sidePolicy: SpreadSidePolicy{},
		monitor:    NewStalenessMonitor(cfg.StaleThreshold),
		nowFunc:    time.Now,
		logger:     logger.With(slog.String("component", "snipe"), slog.String("asset_id", cfg.AssetID)),
	}
}

// SetPolicies replaces the sizing and side-selection policies. Nil arguments
// keep the current policy.
func (s *Snipe) SetPolicies(size SizePolicy, side SidePolicy) {
	if size != nil {
		s.sizePolicy = size
	}
	if side != nil {
		s.sidePolicy = side
	}
}

// SetHooks installs the advisory output hooks.
func (s *Snipe) SetHooks(h Hooks) { s.hooks = h }

// Stats returns a copy of the running statistics.
func (s *Snipe) Stats() Stats { return s.stats }

// ProcessEvent routes one inbound event. Book updates and trades for other
// assets are filtered here and cause no state change. Collaborator failures
// propagate to the caller; a failed event leaves prior state intact and does
// not terminate the strategy.
func (s *Snipe) ProcessEvent(ctx context.Context, ev domain.StreamEvent) error {
	switch ev.Type {
	case domain.EventBookUpdate:
		if ev.Delta == nil || ev.Delta.AssetID != s.cfg.AssetID {
			return nil
		}
		return s.handleBookUpdate(ctx, *ev.Delta)
	case domain.EventTrade:
		if ev.Trade == nil || ev.Trade.AssetID != s.cfg.AssetID {
			return nil
		}
		s.handleTrade(*ev.Trade)
		return nil
	case domain.EventHeartbeat:
		s.handleHeartbeat(ctx)
		return nil
	default:
		return nil
	}
}

func (s *Snipe) handleBookUpdate(ctx context.Context, delta domain.OrderDelta) error {
	s.books.GetOrCreate(s.cfg.AssetID)

	if err := s.books.Apply(delta); err != nil {
		return fmt.Errorf("snipe: apply delta seq %d: %w", delta.Sequence, err)
	}

	snap, err := s.books.Snapshot(s.cfg.AssetID)
	if err != nil {
		return fmt.Errorf("snipe: read book: %w", err)
	}

	if lvl, ok := snap.BestBid(); ok {
		s.lastBestBid = decimal.NullDecimal{Decimal: lvl.Price, Valid: true}
	} else {
		s.lastBestBid = decimal.NullDecimal{}
	}
	if lvl, ok := snap.BestAsk(); ok {
		s.lastBestAsk = decimal.NullDecimal{Decimal: lvl.Price, Valid: true}
	} else {
		s.lastBestAsk = decimal.NullDecimal{}
	}

	s.lastUpdate = s.nowFunc()
	s.monitor.Reset()

	return s.checkOpportunities(ctx, snap)
}

func (s *Snipe) handleTrade(trade domain.TradeFill) {
	s.logger.Info("market trade",
		slog.String("side", string(trade.Side)),
		slog.String("price", trade.Price.String()),
		slog.String("size", trade.Size.String()),
	)
	// Every observed trade counts toward volume. Attributing fills to our own
	// simulated orders (and with it PnL) needs order-ID tracking that lives
	// outside this core.
	s.stats.RecordTrade(trade.Size)
}

func (s *Snipe) handleHeartbeat(ctx context.Context) {
	now := s.nowFunc()
	rep := s.monitor.Check(now, s.lastUpdate)
	if !rep.Stale {
		return
	}
	s.logger.Warn("stale quotes detected",
		slog.Duration("age", rep.Age),
		slog.Duration("threshold", s.cfg.StaleThreshold),
	)
	if rep.Entered && s.hooks.OnStale != nil {
		s.hooks.OnStale(ctx, domain.StaleWarning{
			AssetID:   s.cfg.AssetID,
			Age:       rep.Age,
			Threshold: s.cfg.StaleThreshold,
			At:        now,
		})
	}
}

// checkOpportunities evaluates the current top of book and, when the spread
// is at or below the threshold, synthesizes and simulates an order.
func (s *Snipe) checkOpportunities(ctx context.Context, snap domain.OrderbookSnapshot) error {
	if !s.lastBestBid.Valid || !s.lastBestAsk.Valid {
		return nil
	}
	bid := s.lastBestBid.Decimal
	ask := s.lastBestAsk.Decimal

	spread, ok := SpreadPct(bid, ask)
	if !ok {
		// Non-positive or crossed market: invalid data, skip quietly.
		return nil
	}
	if spread.GreaterThan(s.cfg.MaxSpreadPct) {
		return nil
	}

	s.stats.RecordOpportunity()
	s.logger.Info("opportunity detected",
		slog.String("spread_pct", spread.String()),
		slog.String("max_spread_pct", s.cfg.MaxSpreadPct.String()),
	)
	if s.hooks.OnOpportunity != nil {
		s.hooks.OnOpportunity(ctx, domain.OpportunitySignal{
			AssetID:   s.cfg.AssetID,
			BestBid:   bid,
			BestAsk:   ask,
			SpreadPct: spread,
			At:        s.nowFunc(),
		})
	}

	return s.executeSnipe(ctx, bid, ask, snap)
}

// executeSnipe builds a synthetic market order and simulates it against a
// transient rebuild of the current book.
func (s *Snipe) executeSnipe(ctx context.Context, bid, ask decimal.Decimal, snap domain.OrderbookSnapshot) error {
	size := s.sizePolicy.Size(s.cfg.MinOrderSize, s.cfg.MaxOrderSize)
	side := s.sidePolicy.Side(bid, ask)
	now := s.nowFunc()

	req := domain.MarketOrderRequest{
		AssetID:           s.cfg.AssetID,
		Side:              side,
		Amount:            size,
		SlippageTolerance: defaultSlippageTolerancePct,
		ClientID:          fmt.Sprintf("snipe_%d", now.UnixMilli()),
	}

	transient := book.LevelsToBook(s.cfg.AssetID, snap.Bids, snap.Asks, now)

	start := s.nowFunc()
	result, err := s.engine.Simulate(req, transient)
	latencyMS := float64(s.nowFunc().Sub(start).Microseconds()) / 1000
	if err != nil {
		// The attempt never produced a result; placed/filled counters stay put.
		return fmt.Errorf("snipe: simulate %s: %w", req.ClientID, err)
	}

	s.stats.RecordExecution(result, latencyMS)

	s.logger.Info("snipe order executed",
		slog.String("client_id", req.ClientID),
		slog.String("side", string(side)),
		slog.String("amount", size.String()),
		slog.String("status", string(result.Status)),
		slog.String("total_size", result.TotalSize.String()),
		slog.String("avg_price", result.AveragePrice.String()),
		slog.Float64("latency_ms", latencyMS),
	)
	if s.hooks.OnExecution != nil {
		s.hooks.OnExecution(ctx, domain.Execution{
			ClientID:  req.ClientID,
			AssetID:   s.cfg.AssetID,
			Side:      side,
			Amount:    size,
			Result:    result,
			LatencyMS: latencyMS,
			At:        now,
		})
	}
	return nil
}
