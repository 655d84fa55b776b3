package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rentkaro/rentkaro/internal/checkout"
	"github.com/rentkaro/rentkaro/internal/order"
	"github.com/rentkaro/rentkaro/internal/payment"
)

type CheckoutService interface {
	Checkout(ctx context.Context, buyerID string, contact order.Contact) (*order.Order, error)
}

type CheckoutHandler struct {
	svc CheckoutService
}

func NewCheckoutHandler(svc CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	buyerID := chi.URLParam(r, "buyerId")
	if buyerID == "" {
		writeError(w, http.StatusBadRequest, "missing buyerId")
		return
	}

	var contact order.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	// the gateway call inside may block on buyer interaction
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	o, err := h.svc.Checkout(ctx, buyerID, contact)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart), errors.Is(err, order.ErrIncompleteContact):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, checkout.ErrKycNotApproved):
			writeError(w, http.StatusForbidden, "kyc approval required")
		case errors.Is(err, checkout.ErrStockDepleted):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, payment.ErrPaymentCancelled):
			writeJSON(w, http.StatusConflict, map[string]string{"status": "cancelled"})
		case errors.Is(err, payment.ErrPaymentFailed):
			writeError(w, http.StatusBadGateway, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "checkout failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, o)
}
