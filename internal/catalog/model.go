package catalog

import (
	"time"

	"github.com/rentkaro/rentkaro/internal/pricing"
)

// ModerationStatus gates what the storefront may list. Only approved
// products are visible to buyers; sellers see their own regardless.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

type Product struct {
	ID         string           `json:"productId"`
	SellerID   string           `json:"sellerId"`
	Title      string           `json:"title"`
	Category   string           `json:"category"`
	Stocks     int              `json:"stocks"`
	Pricing    pricing.Pricing  `json:"pricing"`
	Moderation ModerationStatus `json:"moderation"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// Line is a quantity request against one product, used for stock
// reservation at checkout.
type Line struct {
	ProductID string
	Quantity  int
}

type DepletedLine struct {
	ProductID string
	Requested int
	Available int
}

type ReserveResult struct {
	Reserved []Line
	Depleted []DepletedLine
}
