package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service owns the buyer's cart lifecycle: it loads the snapshot, applies
// one mutation, and writes the result back through the Store before
// returning. The mutators themselves never fail on business grounds --
// quantity is clamped, absent lines are no-ops -- so errors here are
// storage errors only.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get returns the buyer's cart, materializing an empty one if none is
// stored yet. The empty cart is not persisted until the first mutation.
func (s *Service) Get(ctx context.Context, buyerID string) (*Cart, error) {
	c, err := s.store.Load(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if c == nil {
		c = &Cart{ID: uuid.NewString(), BuyerID: buyerID}
	}
	return c, nil
}

// Add merge-adds a product snapshot into the cart and persists the result.
// The boolean reports whether the requested quantity was clamped to stock.
func (s *Service) Add(ctx context.Context, buyerID string, snapshot Line) (*Cart, bool, error) {
	c, err := s.Get(ctx, buyerID)
	if err != nil {
		return nil, false, err
	}

	clamped := c.Add(snapshot)
	if err := s.save(ctx, c); err != nil {
		return nil, false, err
	}
	return c, clamped, nil
}

func (s *Service) Increase(ctx context.Context, buyerID, productID string) (*Cart, error) {
	return s.mutate(ctx, buyerID, func(c *Cart) { c.IncreaseQuantity(productID) })
}

func (s *Service) Decrease(ctx context.Context, buyerID, productID string) (*Cart, error) {
	return s.mutate(ctx, buyerID, func(c *Cart) { c.DecreaseQuantity(productID) })
}

func (s *Service) Remove(ctx context.Context, buyerID, productID string) (*Cart, error) {
	return s.mutate(ctx, buyerID, func(c *Cart) { c.Remove(productID) })
}

// Clear drops the whole cart, used after a confirmed order.
func (s *Service) Clear(ctx context.Context, buyerID string) error {
	if err := s.store.Clear(ctx, buyerID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, buyerID string, fn func(*Cart)) (*Cart, error) {
	c, err := s.Get(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	fn(c)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) save(ctx context.Context, c *Cart) error {
	c.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, c); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
