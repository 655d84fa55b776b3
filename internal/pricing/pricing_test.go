package pricing

import (
	"errors"
	"testing"
)

func TestResolveSale(t *testing.T) {
	tests := map[string]struct {
		realPrice   float64
		discountPct float64
		want        float64
		wantErr     bool
	}{
		"no discount returns base price": {realPrice: 1000, discountPct: 0, want: 1000},
		"full discount returns zero":     {realPrice: 1000, discountPct: 100, want: 0},
		"twenty percent off":             {realPrice: 1000, discountPct: 20, want: 800},
		"ten percent off tier price":     {realPrice: 300, discountPct: 10, want: 270},
		"zero price stays zero":          {realPrice: 0, discountPct: 50, want: 0},
		"negative price rejected":        {realPrice: -1, discountPct: 0, wantErr: true},
		"discount above 100 rejected":    {realPrice: 100, discountPct: 101, wantErr: true},
		"negative discount rejected":     {realPrice: 100, discountPct: -5, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ResolveSale(tc.realPrice, tc.discountPct)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResolveSaleBounds(t *testing.T) {
	// resolved price always stays within [0, realPrice]
	prices := []float64{0, 0.01, 1, 99.99, 1000, 123456.78}
	discounts := []float64{0, 1, 33.3, 50, 99, 100}

	for _, p := range prices {
		for _, d := range discounts {
			got, err := ResolveSale(p, d)
			if err != nil {
				t.Fatalf("resolve(%v, %v): %v", p, d, err)
			}
			if got < 0 || got > p {
				t.Fatalf("resolve(%v, %v) = %v, out of [0, %v]", p, d, got, p)
			}
		}
	}
}

func TestBestTier(t *testing.T) {
	tests := map[string]struct {
		tiers     []Tier
		wantDays  int
		wantPrice float64
		wantErr   bool
	}{
		"single tier": {
			tiers:     []Tier{{Days: 3, RealPrice: 300, DiscountPct: 10}},
			wantDays:  3,
			wantPrice: 270,
		},
		"minimum wins": {
			tiers: []Tier{
				{Days: 1, RealPrice: 120, DiscountPct: 0},
				{Days: 7, RealPrice: 500, DiscountPct: 80},
				{Days: 3, RealPrice: 300, DiscountPct: 10},
			},
			wantDays:  7,
			wantPrice: 100,
		},
		"tie broken by first occurrence": {
			tiers: []Tier{
				{Days: 1, RealPrice: 100, DiscountPct: 0},
				{Days: 2, RealPrice: 200, DiscountPct: 50},
			},
			wantDays:  1,
			wantPrice: 100,
		},
		"malformed tier skipped": {
			tiers: []Tier{
				{Days: 1, RealPrice: -50, DiscountPct: 0},
				{Days: 2, RealPrice: 80, DiscountPct: 0},
			},
			wantDays:  2,
			wantPrice: 80,
		},
		"empty input": {tiers: nil, wantErr: true},
		"all malformed": {
			tiers:   []Tier{{Days: 1, RealPrice: 100, DiscountPct: 150}},
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			tier, price, err := BestTier(tc.tiers)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tier.Days != tc.wantDays {
				t.Fatalf("got tier days %d, want %d", tier.Days, tc.wantDays)
			}
			if price != tc.wantPrice {
				t.Fatalf("got price %v, want %v", price, tc.wantPrice)
			}
		})
	}
}

func TestPricingUnit(t *testing.T) {
	tests := map[string]struct {
		pricing   Pricing
		tierIndex int
		want      float64
	}{
		"sale with discount": {
			pricing: Pricing{Kind: KindSale, Sale: Sale{RealPrice: 1000, DiscountPct: 20}},
			want:    800,
		},
		"sale with malformed discount falls back to real price": {
			pricing: Pricing{Kind: KindSale, Sale: Sale{RealPrice: 1000, DiscountPct: 120}},
			want:    1000,
		},
		"rental resolves chosen tier": {
			pricing: Pricing{Kind: KindRental, Tiers: []Tier{
				{Days: 1, RealPrice: 100},
				{Days: 3, RealPrice: 300, DiscountPct: 10},
			}},
			tierIndex: 1,
			want:      270,
		},
		"rental out-of-range index falls back to tier zero": {
			pricing: Pricing{Kind: KindRental, Tiers: []Tier{
				{Days: 1, RealPrice: 100},
			}},
			tierIndex: 5,
			want:      100,
		},
		"rental without tiers": {
			pricing: Pricing{Kind: KindRental},
			want:    0,
		},
		"unknown kind": {
			pricing: Pricing{},
			want:    0,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tc.pricing.Unit(tc.tierIndex); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
