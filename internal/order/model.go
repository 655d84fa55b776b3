package order

import (
	"time"

	"github.com/rentkaro/rentkaro/internal/pricing"
)

type Status string

const (
	StatusPending       Status = "pending"
	StatusPaid          Status = "paid"
	StatusConfirmed     Status = "confirmed"
	StatusPaymentFailed Status = "payment_failed"
	StatusCancelled     Status = "cancelled"
)

// Contact is the shipping/contact block captured at checkout.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Pincode string `json:"pincode"`
	City    string `json:"city"`
	State   string `json:"state"`
}

// Item is one frozen order line. UnitPrice and LineTotal are resolved at
// draft time; later catalog changes never touch a submitted order.
type Item struct {
	ProductID   string       `json:"productId"`
	Title       string       `json:"title"`
	Quantity    int          `json:"quantity"`
	Kind        pricing.Kind `json:"kind"`
	RentalDays  int          `json:"rentalDays,omitempty"`
	RealPrice   float64      `json:"realPrice"`
	DiscountPct float64      `json:"discountPct"`
	UnitPrice   float64      `json:"unitPrice"`
	LineTotal   float64      `json:"lineTotal"`
}

// Draft is the assembled checkout payload: ephemeral, never mutated after
// assembly, consumed by the payment/order workflow.
type Draft struct {
	BuyerID        string  `json:"buyerId"`
	Contact        Contact `json:"contact"`
	Items          []Item  `json:"items"`
	ItemsTotal     float64 `json:"itemsTotal"`
	ShippingAmount float64 `json:"shippingAmount"`
	TotalAmount    float64 `json:"totalAmount"`
}

// Order is the persisted record a draft becomes once checkout commits.
type Order struct {
	ID             string    `json:"orderId"`
	BuyerID        string    `json:"buyerId"`
	Contact        Contact   `json:"contact"`
	Items          []Item    `json:"items"`
	ItemsTotal     float64   `json:"itemsTotal"`
	ShippingAmount float64   `json:"shippingAmount"`
	TotalAmount    float64   `json:"totalAmount"`
	Status         Status    `json:"status"`
	PaymentRef     string    `json:"paymentRef,omitempty"`
	FailureReason  string    `json:"failureReason,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
