// Package book maintains locally reconstructed orderbooks: one price-ordered
// book per asset, updated from incremental deltas, queried as immutable
// snapshots.
package book

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polyquant/snipebot/internal/domain"
)

// DefaultDepth is the number of price levels retained per side when no depth
// is specified.
const DefaultDepth = 100

// Book is a price-ordered orderbook for a single asset. Bids are kept
// descending by price, asks ascending, so index 0 is always top of book.
// A Book is not safe for concurrent use; Manager serializes access.
type Book struct {
	assetID   string
	depth     int
	bids      []domain.PriceLevel
	asks      []domain.PriceLevel
	lastSeq   uint64
	updatedAt time.Time
}

// New creates an empty book for assetID retaining up to depth levels per
// side. Non-positive depth falls back to DefaultDepth.
func New(assetID string, depth int) *Book {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Book{assetID: assetID, depth: depth}
}

// AssetID returns the asset this book tracks.
func (b *Book) AssetID() string { return b.assetID }

// ApplyDelta merges one incremental update into the book. Deltas for another
// asset, with an unknown side, or with a negative price or size are rejected
// with ErrInvalidDelta. Deltas whose sequence is lower than the last applied
// one are silently dropped (the feed guarantees sequences are non-decreasing;
// anything older is a replay).
func (b *Book) ApplyDelta(d domain.OrderDelta) error {
	if d.AssetID != b.assetID {
		return fmt.Errorf("book: apply %s to book %s: %w", d.AssetID, b.assetID, domain.ErrInvalidDelta)
	}
	if !d.Side.Valid() {
		return fmt.Errorf("book: side %q: %w", d.Side, domain.ErrInvalidDelta)
	}
	if d.Price.IsNegative() || d.Size.IsNegative() {
		return fmt.Errorf("book: negative price or size: %w", domain.ErrInvalidDelta)
	}
	if d.Sequence < b.lastSeq {
		return nil
	}
	b.lastSeq = d.Sequence

	switch d.Side {
	case domain.SideBuy:
		b.bids = setLevel(b.bids, d.Price, d.Size, descending, b.depth)
	case domain.SideSell:
		b.asks = setLevel(b.asks, d.Price, d.Size, ascending, b.depth)
	}
	b.updatedAt = d.Timestamp
	return nil
}

// BestBid returns the highest bid level, if present.
func (b *Book) BestBid() (domain.PriceLevel, bool) {
	if len(b.bids) == 0 {
		return domain.PriceLevel{}, false
	}
	return b.bids[0], true
}

// BestAsk returns the lowest ask level, if present.
func (b *Book) BestAsk() (domain.PriceLevel, bool) {
	if len(b.asks) == 0 {
		return domain.PriceLevel{}, false
	}
	return b.asks[0], true
}

// Bids returns the bid side best-first. The returned slice is the book's own
// storage; callers that need an owned copy should use Snapshot.
func (b *Book) Bids() []domain.PriceLevel { return b.bids }

// Asks returns the ask side best-first.
func (b *Book) Asks() []domain.PriceLevel { return b.asks }

// Snapshot returns a deep copy of both sides. Mutating the snapshot never
// affects the live book.
func (b *Book) Snapshot() domain.OrderbookSnapshot {
	bids := make([]domain.PriceLevel, len(b.bids))
	copy(bids, b.bids)
	asks := make([]domain.PriceLevel, len(b.asks))
	copy(asks, b.asks)
	return domain.OrderbookSnapshot{
		AssetID:   b.assetID,
		Bids:      bids,
		Asks:      asks,
		Timestamp: b.updatedAt,
	}
}

type ordering int

const (
	descending ordering = iota // bids: highest price first
	ascending                  // asks: lowest price first
)

// setLevel inserts, replaces, or removes (size zero) the level at price,
// preserving best-first ordering and the depth cap.
func setLevel(levels []domain.PriceLevel, price, size decimal.Decimal, ord ordering, depth int) []domain.PriceLevel {
	idx := sort.Search(len(levels), func(i int) bool {
		cmp := levels[i].Price.Cmp(price)
		if ord == descending {
			return cmp <= 0
		}
		return cmp >= 0
	})

	exists := idx < len(levels) && levels[idx].Price.Equal(price)
	switch {
	case size.IsZero():
		if exists {
			levels = append(levels[:idx], levels[idx+1:]...)
		}
	case exists:
		levels[idx].Size = size
	default:
		levels = append(levels, domain.PriceLevel{})
		copy(levels[idx+1:], levels[idx:])
		levels[idx] = domain.PriceLevel{Price: price, Size: size}
	}

	if len(levels) > depth {
		levels = levels[:depth]
	}
	return levels
}
