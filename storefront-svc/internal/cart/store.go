package cart

import (
	"context"
	"errors"
	"sync"
)

var ErrConflict = errors.New("cart changed concurrently, retry")

// Store keeps one ledger per shopping session. Implementations are
// short-lived caches: carts expire and are never archived.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Ledger, error)
	Update(ctx context.Context, sessionID string, fn func(*Ledger) error) (*Ledger, error)
	// Take atomically removes the session's cart and returns what it held.
	// Of two concurrent calls only one sees the lines.
	Take(ctx context.Context, sessionID string) (*Ledger, error)
}

type MemoryStore struct {
	mu      sync.Mutex
	pricing Pricing
	carts   map[string]Snapshot
}

func NewMemoryStore(pricing Pricing) *MemoryStore {
	return &MemoryStore{
		pricing: pricing,
		carts:   make(map[string]Snapshot),
	}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Restore(s.pricing, s.carts[sessionID]), nil
}

func (s *MemoryStore) Update(_ context.Context, sessionID string, fn func(*Ledger) error) (*Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := Restore(s.pricing, s.carts[sessionID])
	if err := fn(ledger); err != nil {
		return nil, err
	}
	if ledger.IsEmpty() && ledger.Promo() == "" {
		delete(s.carts, sessionID)
	} else {
		s.carts[sessionID] = ledger.Snapshot()
	}
	return ledger, nil
}

func (s *MemoryStore) Take(_ context.Context, sessionID string) (*Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger := Restore(s.pricing, s.carts[sessionID])
	delete(s.carts, sessionID)
	return ledger, nil
}

var _ Store = (*MemoryStore)(nil)
