package book

import (
	"time"

	"github.com/polyquant/snipebot/internal/domain"
)

// Synthetic sequence markers used when replaying snapshot levels into a fresh
// book. The transient book starts empty, so one constant per side keeps the
// replay ordered without inventing a feed sequence.
const (
	bidReplaySeq uint64 = 1
	askReplaySeq uint64 = 2
)

// LevelsToBook replays snapshot levels into a fresh transient book for
// execution simulation. The result shares no state with the live book; it is
// a simulation artifact, never a real book mutation.
func LevelsToBook(assetID string, bids, asks []domain.PriceLevel, at time.Time) *Book {
	b := New(assetID, DefaultDepth)
	for _, lvl := range bids {
		// Levels come from a snapshot the live book already validated.
		_ = b.ApplyDelta(domain.OrderDelta{
			AssetID:   assetID,
			Timestamp: at,
			Side:      domain.SideBuy,
			Price:     lvl.Price,
			Size:      lvl.Size,
			Sequence:  bidReplaySeq,
		})
	}
	for _, lvl := range asks {
		_ = b.ApplyDelta(domain.OrderDelta{
			AssetID:   assetID,
			Timestamp: at,
			Side:      domain.SideSell,
			Price:     lvl.Price,
			Size:      lvl.Size,
			Sequence:  askReplaySeq,
		})
	}
	return b
}
