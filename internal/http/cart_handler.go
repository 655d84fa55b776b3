package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rentkaro/rentkaro/internal/cart"
	"github.com/rentkaro/rentkaro/internal/catalog"
	"github.com/rentkaro/rentkaro/internal/pricing"
)

type CartService interface {
	Get(ctx context.Context, buyerID string) (*cart.Cart, error)
	Add(ctx context.Context, buyerID string, snapshot cart.Line) (*cart.Cart, bool, error)
	Increase(ctx context.Context, buyerID, productID string) (*cart.Cart, error)
	Decrease(ctx context.Context, buyerID, productID string) (*cart.Cart, error)
	Remove(ctx context.Context, buyerID, productID string) (*cart.Cart, error)
	Clear(ctx context.Context, buyerID string) error
}

type ProductGetter interface {
	Get(ctx context.Context, productID string) (catalog.Product, error)
}

type CartHandler struct {
	carts    CartService
	products ProductGetter
}

func NewCartHandler(carts CartService, products ProductGetter) *CartHandler {
	return &CartHandler{carts: carts, products: products}
}

type cartResponse struct {
	Cart    *cart.Cart `json:"cart"`
	Total   float64    `json:"total"`
	Clamped bool       `json:"clamped,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	buyerID := chi.URLParam(r, "buyerId")
	if buyerID == "" {
		writeError(w, http.StatusBadRequest, "missing buyerId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.carts.Get(ctx, buyerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	writeJSON(w, http.StatusOK, cartResponse{Cart: c, Total: c.Total()})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	buyerID := chi.URLParam(r, "buyerId")
	if buyerID == "" {
		writeError(w, http.StatusBadRequest, "missing buyerId")
		return
	}

	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		TierIndex int    `json:"tierIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.ProductID == "" || body.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "productId and quantity are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.products.Get(ctx, body.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load product")
		return
	}
	if p.Moderation != catalog.ModerationApproved {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if p.Pricing.Kind == pricing.KindRental && (body.TierIndex < 0 || body.TierIndex >= len(p.Pricing.Tiers)) {
		writeError(w, http.StatusBadRequest, "invalid tierIndex")
		return
	}

	snapshot := cart.Line{
		ProductID: p.ID,
		Title:     p.Title,
		Pricing:   p.Pricing,
		TierIndex: body.TierIndex,
		Stocks:    p.Stocks,
		Quantity:  body.Quantity,
	}

	c, clamped, err := h.carts.Add(ctx, buyerID, snapshot)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}

	writeJSON(w, http.StatusOK, cartResponse{Cart: c, Total: c.Total(), Clamped: clamped})
}

func (h *CartHandler) IncreaseItem(w http.ResponseWriter, r *http.Request) {
	h.mutateItem(w, r, h.carts.Increase)
}

func (h *CartHandler) DecreaseItem(w http.ResponseWriter, r *http.Request) {
	h.mutateItem(w, r, h.carts.Decrease)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.mutateItem(w, r, h.carts.Remove)
}

func (h *CartHandler) mutateItem(w http.ResponseWriter, r *http.Request,
	mutate func(ctx context.Context, buyerID, productID string) (*cart.Cart, error)) {

	buyerID := chi.URLParam(r, "buyerId")
	productID := chi.URLParam(r, "productId")
	if buyerID == "" || productID == "" {
		writeError(w, http.StatusBadRequest, "missing buyerId or productId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := mutate(ctx, buyerID, productID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	writeJSON(w, http.StatusOK, cartResponse{Cart: c, Total: c.Total()})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	buyerID := chi.URLParam(r, "buyerId")
	if buyerID == "" {
		writeError(w, http.StatusBadRequest, "missing buyerId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.carts.Clear(ctx, buyerID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cart cleared"})
}
