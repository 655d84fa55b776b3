package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentkaro/rentkaro/internal/cart"
	"github.com/rentkaro/rentkaro/internal/pricing"
)

func validContact() Contact {
	return Contact{
		Name:    "Asha Verma",
		Email:   "asha@example.com",
		Phone:   "9876543210",
		Address: "14 MG Road",
		Pincode: "560001",
		City:    "Bengaluru",
		State:   "Karnataka",
	}
}

func twoLineCart() *cart.Cart {
	c := &cart.Cart{ID: "cart-1", BuyerID: "buyer-1"}
	c.Add(cart.Line{
		ProductID: "p1",
		Title:     "Camera",
		Pricing: pricing.Pricing{
			Kind: pricing.KindSale,
			Sale: pricing.Sale{RealPrice: 1000, DiscountPct: 20},
		},
		Stocks:   5,
		Quantity: 2,
	})
	c.Add(cart.Line{
		ProductID: "p2",
		Title:     "Drill",
		Pricing: pricing.Pricing{
			Kind:  pricing.KindRental,
			Tiers: []pricing.Tier{{Days: 3, RealPrice: 300, DiscountPct: 10}},
		},
		Stocks:   4,
		Quantity: 1,
	})
	return c
}

func TestBuildDraftTotals(t *testing.T) {
	d, err := BuildDraft(twoLineCart(), validContact(), 50)
	require.NoError(t, err)

	assert.Equal(t, "buyer-1", d.BuyerID)
	require.Len(t, d.Items, 2)
	assert.Equal(t, 1870.0, d.ItemsTotal)
	assert.Equal(t, 50.0, d.ShippingAmount)
	assert.Equal(t, 1920.0, d.TotalAmount)

	sale := d.Items[0]
	assert.Equal(t, "p1", sale.ProductID)
	assert.Equal(t, pricing.KindSale, sale.Kind)
	assert.Equal(t, 800.0, sale.UnitPrice)
	assert.Equal(t, 1600.0, sale.LineTotal)
	assert.Equal(t, 1000.0, sale.RealPrice)
	assert.Equal(t, 20.0, sale.DiscountPct)

	rental := d.Items[1]
	assert.Equal(t, pricing.KindRental, rental.Kind)
	assert.Equal(t, 3, rental.RentalDays)
	assert.Equal(t, 270.0, rental.UnitPrice)
	assert.Equal(t, 270.0, rental.LineTotal)
}

func TestBuildDraftFreezesPricing(t *testing.T) {
	c := twoLineCart()
	d, err := BuildDraft(c, validContact(), 50)
	require.NoError(t, err)

	// a later price change on the cart line must not alter the draft
	c.Lines[0].Pricing.Sale.RealPrice = 9999
	c.Lines[0].Pricing.Sale.DiscountPct = 0

	assert.Equal(t, 800.0, d.Items[0].UnitPrice)
	assert.Equal(t, 1920.0, d.TotalAmount)
}

func TestBuildDraftEmptyCart(t *testing.T) {
	_, err := BuildDraft(&cart.Cart{BuyerID: "buyer-1"}, validContact(), 50)
	require.ErrorIs(t, err, ErrEmptyCart)

	_, err = BuildDraft(nil, validContact(), 50)
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestBuildDraftIncompleteContact(t *testing.T) {
	tests := map[string]func(*Contact){
		"blank name":       func(c *Contact) { c.Name = "" },
		"whitespace email": func(c *Contact) { c.Email = "   " },
		"missing phone":    func(c *Contact) { c.Phone = "" },
		"missing address":  func(c *Contact) { c.Address = "" },
		"missing pincode":  func(c *Contact) { c.Pincode = "" },
		"missing city":     func(c *Contact) { c.City = "" },
		"missing state":    func(c *Contact) { c.State = "" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			contact := validContact()
			mutate(&contact)

			_, err := BuildDraft(twoLineCart(), contact, 50)
			require.ErrorIs(t, err, ErrIncompleteContact)
		})
	}
}

func TestBuildDraftOutOfRangeTierFallsBack(t *testing.T) {
	c := &cart.Cart{BuyerID: "buyer-1"}
	c.Add(cart.Line{
		ProductID: "p2",
		Pricing: pricing.Pricing{
			Kind:  pricing.KindRental,
			Tiers: []pricing.Tier{{Days: 1, RealPrice: 100}},
		},
		TierIndex: 7,
		Stocks:    2,
		Quantity:  1,
	})

	d, err := BuildDraft(c, validContact(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Items[0].RentalDays)
	assert.Equal(t, 100.0, d.Items[0].UnitPrice)
}
