package payment

import (
	"context"
	"errors"
)

var (
	ErrPaymentFailed    = errors.New("payment failed")
	ErrPaymentCancelled = errors.New("payment cancelled")
)

type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

// Confirmation is the signed proof handed back by the gateway after a
// successful collection. It is forwarded unchanged to Verify.
type Confirmation struct {
	OrderRef   string `json:"orderId"`
	PaymentRef string `json:"paymentId"`
	Signature  string `json:"signature"`
}

// Result is the single awaited outcome of a payment collection.
type Result struct {
	Outcome      Outcome
	Confirmation Confirmation
	Reason       string
}

// Gateway is the opaque payment boundary. Charge blocks until the buyer
// confirms, cancels, or the gateway reports a failure; Verify checks the
// confirmation signature server-side before the order is marked paid.
// Implementations never touch the cart.
type Gateway interface {
	Charge(ctx context.Context, amountPaise int64, receipt string) (Result, error)
	Verify(ctx context.Context, conf Confirmation) error
}

// AmountPaise converts a rupee amount into the integer paise the gateway
// expects, rounding to the nearest paisa.
func AmountPaise(amount float64) int64 {
	if amount <= 0 {
		return 0
	}
	return int64(amount*100 + 0.5)
}
