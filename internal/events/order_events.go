package events

import "time"

const (
	OrderCreatedEventName   = "OrderCreated"
	OrderCreatedVersion     = 1
	OrderConfirmedEventName = "OrderConfirmed"
	OrderConfirmedVersion   = 1
	PaymentFailedEventName  = "OrderPaymentFailed"
	PaymentFailedVersion    = 1
)

type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Kind      string  `json:"kind"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

type OrderCreated struct {
	OrderID        string      `json:"orderId"`
	BuyerID        string      `json:"buyerId"`
	Items          []OrderItem `json:"items"`
	ItemsTotal     float64     `json:"itemsTotal"`
	ShippingAmount float64     `json:"shippingAmount"`
	TotalAmount    float64     `json:"totalAmount"`
	Timestamp      time.Time   `json:"timestamp"`
}

type OrderConfirmed struct {
	OrderID    string    `json:"orderId"`
	BuyerID    string    `json:"buyerId"`
	PaymentRef string    `json:"paymentRef"`
	Timestamp  time.Time `json:"timestamp"`
}

type OrderPaymentFailed struct {
	OrderID   string    `json:"orderId"`
	BuyerID   string    `json:"buyerId"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
