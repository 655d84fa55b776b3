package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rentkaro/rentkaro/internal/middleware"
)

func NewRouter(catalogH *CatalogHandler, cartH *CartHandler, checkoutH *CheckoutHandler, orderH *OrderHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)

	r.Get("/health", healthHandler)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", catalogH.List)
		r.Get("/{productId}", catalogH.Get)
		r.Post("/{productId}/moderate", catalogH.Moderate)
	})

	r.Route("/api/cart/{buyerId}", func(r chi.Router) {
		r.Get("/", cartH.GetCart)
		r.Delete("/", cartH.ClearCart)
		r.Post("/items", cartH.AddItem)
		r.Post("/items/{productId}/increase", cartH.IncreaseItem)
		r.Post("/items/{productId}/decrease", cartH.DecreaseItem)
		r.Delete("/items/{productId}", cartH.RemoveItem)
	})

	r.Post("/api/checkout/{buyerId}", checkoutH.Checkout)

	r.Get("/api/orders/{orderId}", orderH.GetOrder)
	r.Get("/api/buyers/{buyerId}/orders", orderH.ListOrdersByBuyer)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "rentkaro-core",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
