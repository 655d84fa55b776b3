package cart

import (
	"context"
	"sync"
)

// Store persists full cart snapshots keyed by buyer id. Every mutation
// rewrites the whole snapshot; concurrent writers are last-write-wins.
type Store interface {
	// Load returns the buyer's cart, or nil when none exists.
	Load(ctx context.Context, buyerID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Clear(ctx context.Context, buyerID string) error
}

// MemoryStore is an in-process Store used in tests and single-node setups.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]Cart)}
}

func (s *MemoryStore) Load(ctx context.Context, buyerID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[buyerID]
	if !ok {
		return nil, nil
	}
	cp := c
	cp.Lines = append([]Line(nil), c.Lines...)
	return &cp, nil
}

func (s *MemoryStore) Save(ctx context.Context, c *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	cp.Lines = append([]Line(nil), c.Lines...)
	s.carts[c.BuyerID] = cp
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, buyerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, buyerID)
	return nil
}
