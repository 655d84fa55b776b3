package cart

import (
	"time"

	"github.com/rentkaro/rentkaro/internal/pricing"
)

// Line is one cart entry: a product snapshot plus the chosen quantity.
// Stocks is the ceiling captured when the product was added; quantity is
// always kept within [1, Stocks].
type Line struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Pricing   pricing.Pricing `json:"pricing"`
	TierIndex int             `json:"tierIndex"`
	Stocks    int             `json:"stocks"`
	Quantity  int             `json:"quantity"`
}

// UnitPrice resolves the effective price for one unit of this line.
func (l Line) UnitPrice() float64 {
	return l.Pricing.Unit(l.TierIndex)
}

// Total is the line subtotal.
func (l Line) Total() float64 {
	return l.UnitPrice() * float64(l.Quantity)
}

// Cart is an ordered collection of lines, unique by product id, owned by
// one buyer session.
type Cart struct {
	ID        string    `json:"cartId"`
	BuyerID   string    `json:"buyerId"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Total sums the line subtotals. Zero for an empty cart.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, l := range c.Lines {
		total += l.Total()
	}
	return total
}

func (c *Cart) find(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add inserts a new line or merges into an existing one for the same
// product. The resulting quantity is clamped to the stock ceiling; the
// return value reports whether clamping occurred. Out-of-stock products
// are a no-op, callers are expected to have disabled the action already.
func (c *Cart) Add(snapshot Line) bool {
	if snapshot.Stocks <= 0 {
		return false
	}
	if snapshot.Quantity < 1 {
		snapshot.Quantity = 1
	}

	if i := c.find(snapshot.ProductID); i >= 0 {
		want := c.Lines[i].Quantity + snapshot.Quantity
		c.Lines[i].Quantity = min(want, c.Lines[i].Stocks)
		return want > c.Lines[i].Stocks
	}

	clamped := snapshot.Quantity > snapshot.Stocks
	snapshot.Quantity = min(snapshot.Quantity, snapshot.Stocks)
	c.Lines = append(c.Lines, snapshot)
	return clamped
}

// IncreaseQuantity bumps the line by one, silently capped at the stock
// ceiling. Unknown product ids are a no-op.
func (c *Cart) IncreaseQuantity(productID string) {
	if i := c.find(productID); i >= 0 && c.Lines[i].Quantity < c.Lines[i].Stocks {
		c.Lines[i].Quantity++
	}
}

// DecreaseQuantity lowers the line by one, never below one.
func (c *Cart) DecreaseQuantity(productID string) {
	if i := c.find(productID); i >= 0 && c.Lines[i].Quantity > 1 {
		c.Lines[i].Quantity--
	}
}

// Remove deletes the line. Absent lines are a no-op, not an error.
func (c *Cart) Remove(productID string) {
	if i := c.find(productID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}
