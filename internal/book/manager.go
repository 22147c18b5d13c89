package book

import (
	"fmt"
	"sync"

	"github.com/polyquant/snipebot/internal/domain"
)

// Manager holds one Book per asset and serializes access to them. Creating a
// book for an asset that already has one is a no-op.
type Manager struct {
	mu    sync.RWMutex
	depth int
	books map[string]*Book
}

// NewManager creates a Manager whose books retain up to depth levels per side.
func NewManager(depth int) *Manager {
	return &Manager{
		depth: depth,
		books: make(map[string]*Book),
	}
}

// GetOrCreate returns the book for assetID, creating an empty one if absent.
func (m *Manager) GetOrCreate(assetID string) *Book {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[assetID]
	if !ok {
		b = New(assetID, m.depth)
		m.books[assetID] = b
	}
	return b
}

// Apply routes a delta to the book for its asset. The book must already
// exist; callers ensure it via GetOrCreate.
func (m *Manager) Apply(d domain.OrderDelta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[d.AssetID]
	if !ok {
		return fmt.Errorf("book: apply %s: %w", d.AssetID, domain.ErrBookNotFound)
	}
	return b.ApplyDelta(d)
}

// Snapshot returns an owned copy of the book for assetID.
func (m *Manager) Snapshot(assetID string) (domain.OrderbookSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[assetID]
	if !ok {
		return domain.OrderbookSnapshot{}, fmt.Errorf("book: snapshot %s: %w", assetID, domain.ErrBookNotFound)
	}
	return b.Snapshot(), nil
}
