package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rentkaro/rentkaro/internal/clients"
)

// HTTPGateway talks to the external payment provider over JSON/HTTP.
// The provider owns the widget that collects the actual payment; from
// this side the collection is one blocking call with three outcomes.
type HTTPGateway struct {
	c *clients.Client
}

func NewHTTPGateway(c *clients.Client) *HTTPGateway {
	return &HTTPGateway{c: c}
}

type collectRequest struct {
	AmountPaise int64  `json:"amount"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
}

type collectResponse struct {
	Status    string `json:"status"`
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
	Reason    string `json:"reason"`
}

func (g *HTTPGateway) Charge(ctx context.Context, amountPaise int64, receipt string) (Result, error) {
	body, err := json.Marshal(collectRequest{
		AmountPaise: amountPaise,
		Currency:    "INR",
		Receipt:     receipt,
	})
	if err != nil {
		return Result{}, fmt.Errorf("encode collect request: %w", err)
	}

	resp, err := g.c.Do(ctx, http.MethodPost, "/api/payments/collect", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("payment gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("payment gateway returned %d: %w", resp.StatusCode, ErrPaymentFailed)
	}

	var cr collectResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return Result{}, fmt.Errorf("decode collect response: %w", err)
	}

	switch cr.Status {
	case "confirmed":
		return Result{
			Outcome: OutcomeConfirmed,
			Confirmation: Confirmation{
				OrderRef:   cr.OrderID,
				PaymentRef: cr.PaymentID,
				Signature:  cr.Signature,
			},
		}, nil
	case "cancelled":
		return Result{Outcome: OutcomeCancelled}, nil
	default:
		return Result{Outcome: OutcomeFailed, Reason: cr.Reason}, nil
	}
}

func (g *HTTPGateway) Verify(ctx context.Context, conf Confirmation) error {
	body, err := json.Marshal(conf)
	if err != nil {
		return fmt.Errorf("encode verify request: %w", err)
	}

	resp, err := g.c.Do(ctx, http.MethodPost, "/api/payments/verify", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("payment verify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("signature rejected (%d): %w", resp.StatusCode, ErrPaymentFailed)
	}
	return nil
}
