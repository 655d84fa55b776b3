package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentkaro/rentkaro/internal/clients"
)

func newGateway(t *testing.T, handler http.HandlerFunc) *HTTPGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPGateway(clients.NewClient("payment", srv.URL, srv.Client()))
}

func TestChargeConfirmed(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/payments/collect", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(192000), req["amount"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    "confirmed",
			"orderId":   "gw-order-1",
			"paymentId": "pay-1",
			"signature": "sig-1",
		})
	})

	res, err := gw.Charge(context.Background(), 192000, "order-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, res.Outcome)
	assert.Equal(t, Confirmation{OrderRef: "gw-order-1", PaymentRef: "pay-1", Signature: "sig-1"}, res.Confirmation)
}

func TestChargeCancelled(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "cancelled"})
	})

	res, err := gw.Charge(context.Background(), 100, "order-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, res.Outcome)
}

func TestChargeFailedStatus(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "failed", "reason": "card declined"})
	})

	res, err := gw.Charge(context.Background(), 100, "order-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, "card declined", res.Reason)
}

func TestChargeGatewayError(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := gw.Charge(context.Background(), 100, "order-1")
	require.ErrorIs(t, err, ErrPaymentFailed)
}

func TestVerify(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/payments/verify", r.URL.Path)

		var conf Confirmation
		require.NoError(t, json.NewDecoder(r.Body).Decode(&conf))
		if conf.Signature != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, gw.Verify(context.Background(), Confirmation{Signature: "good"}))
	require.ErrorIs(t, gw.Verify(context.Background(), Confirmation{Signature: "bad"}), ErrPaymentFailed)
}

func TestAmountPaise(t *testing.T) {
	tests := map[string]struct {
		amount float64
		want   int64
	}{
		"whole rupees":    {amount: 1920, want: 192000},
		"fraction rounds": {amount: 10.006, want: 1001},
		"zero":            {amount: 0, want: 0},
		"negative":        {amount: -5, want: 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, AmountPaise(tc.amount))
		})
	}
}
