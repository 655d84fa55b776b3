package order

import (
	"errors"
	"strings"

	"github.com/rentkaro/rentkaro/internal/cart"
	"github.com/rentkaro/rentkaro/internal/pricing"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrIncompleteContact = errors.New("incomplete contact information")
)

// Validate checks that every contact field is non-blank.
func (c Contact) Validate() error {
	fields := []string{c.Name, c.Email, c.Phone, c.Address, c.Pincode, c.City, c.State}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return ErrIncompleteContact
		}
	}
	return nil
}

// BuildDraft turns the cart into the order-submission payload. Each line's
// pricing is resolved once and copied into the draft, so the draft stays
// stable even if the product changes afterwards.
func BuildDraft(c *cart.Cart, contact Contact, shippingFlat float64) (Draft, error) {
	if c == nil || len(c.Lines) == 0 {
		return Draft{}, ErrEmptyCart
	}
	if err := contact.Validate(); err != nil {
		return Draft{}, err
	}

	d := Draft{
		BuyerID:        c.BuyerID,
		Contact:        contact,
		ShippingAmount: shippingFlat,
	}

	for _, l := range c.Lines {
		item := Item{
			ProductID: l.ProductID,
			Title:     l.Title,
			Quantity:  l.Quantity,
			Kind:      l.Pricing.Kind,
			UnitPrice: l.UnitPrice(),
			LineTotal: l.Total(),
		}

		switch l.Pricing.Kind {
		case pricing.KindSale:
			item.RealPrice = l.Pricing.Sale.RealPrice
			item.DiscountPct = l.Pricing.Sale.DiscountPct
		case pricing.KindRental:
			if len(l.Pricing.Tiers) > 0 {
				idx := l.TierIndex
				if idx < 0 || idx >= len(l.Pricing.Tiers) {
					idx = 0
				}
				t := l.Pricing.Tiers[idx]
				item.RentalDays = t.Days
				item.RealPrice = t.RealPrice
				item.DiscountPct = t.DiscountPct
			}
		}

		d.Items = append(d.Items, item)
		d.ItemsTotal += item.LineTotal
	}

	d.TotalAmount = d.ItemsTotal + d.ShippingAmount
	return d, nil
}
