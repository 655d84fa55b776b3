package pricing

import "errors"

// ErrInvalidInput marks pricing fields that cannot be resolved: a negative
// base price or a discount outside [0,100]. Callers absorb it locally and
// fall back to the undiscounted price rather than failing the whole cart.
var ErrInvalidInput = errors.New("pricing: invalid input")

// Kind selects the pricing branch of a product. A product is in exactly one
// branch; handlers reject payloads that carry fields from the other branch.
type Kind string

const (
	KindSale   Kind = "sale"
	KindRental Kind = "rental"
)

// Tier is one day-count-indexed rental price.
type Tier struct {
	Days        int     `json:"days"`
	RealPrice   float64 `json:"realPrice"`
	DiscountPct float64 `json:"discountPct"`
}

// Sale is the one-time purchase branch.
type Sale struct {
	RealPrice   float64 `json:"realPrice"`
	DiscountPct float64 `json:"discountPct"`
}

// Pricing is the tagged pricing variant carried by products and cart lines.
// Sale is meaningful only when Kind == KindSale, Tiers only when
// Kind == KindRental.
type Pricing struct {
	Kind  Kind   `json:"kind"`
	Sale  Sale   `json:"sale,omitempty"`
	Tiers []Tier `json:"tiers,omitempty"`
}

// ResolveSale returns the effective price after applying a percentage
// discount. The result is always in [0, realPrice].
func ResolveSale(realPrice, discountPct float64) (float64, error) {
	if realPrice < 0 || discountPct < 0 || discountPct > 100 {
		return 0, ErrInvalidInput
	}
	return realPrice * (1 - discountPct/100), nil
}

// ResolveTier applies the same formula to a single rental tier.
func ResolveTier(t Tier) (float64, error) {
	return ResolveSale(t.RealPrice, t.DiscountPct)
}

// BestTier returns the tier with the minimum resolved price and that price.
// Ties are broken by input order. Tiers that fail to resolve are skipped;
// if none resolve (or the slice is empty) ErrInvalidInput is returned.
func BestTier(tiers []Tier) (Tier, float64, error) {
	best := -1
	bestPrice := 0.0
	for i, t := range tiers {
		p, err := ResolveTier(t)
		if err != nil {
			continue
		}
		if best == -1 || p < bestPrice {
			best = i
			bestPrice = p
		}
	}
	if best == -1 {
		return Tier{}, 0, ErrInvalidInput
	}
	return tiers[best], bestPrice, nil
}

// Unit resolves the effective unit price of the variant. For rentals the
// tier at tierIndex is used; an out-of-range index falls back to tier 0.
// Malformed discount fields fall back to the undiscounted price, so a
// stale catalog row can never produce an error or a negative total here.
func (p Pricing) Unit(tierIndex int) float64 {
	switch p.Kind {
	case KindSale:
		price, err := ResolveSale(p.Sale.RealPrice, p.Sale.DiscountPct)
		if err != nil {
			return fallback(p.Sale.RealPrice)
		}
		return price
	case KindRental:
		if len(p.Tiers) == 0 {
			return 0
		}
		if tierIndex < 0 || tierIndex >= len(p.Tiers) {
			tierIndex = 0
		}
		t := p.Tiers[tierIndex]
		price, err := ResolveTier(t)
		if err != nil {
			return fallback(t.RealPrice)
		}
		return price
	default:
		return 0
	}
}

func fallback(realPrice float64) float64 {
	if realPrice < 0 {
		return 0
	}
	return realPrice
}
