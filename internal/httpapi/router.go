// Package httpapi exposes the storefront-facing JSON API: the shopper cart and
// the multi-step checkout flow.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	JWTSecret      string
	RequestTimeout time.Duration
}

// NewRouter builds the full API surface. Everything under /api/v1 requires an
// authenticated shopper session.
func NewRouter(cfg RouterConfig, checkoutHandler *CheckoutHandler, cartHandler *CartHandler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.JWTSecret))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Put("/", cartHandler.UpsertCart)
			r.Delete("/", cartHandler.ClearCart)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutHandler.Enter)
			r.Get("/", checkoutHandler.Current)
			r.Delete("/", checkoutHandler.Abandon)
			r.Put("/shipping", checkoutHandler.SubmitShipping)
			r.Post("/summary/confirm", checkoutHandler.ConfirmSummary)
			r.Post("/payment", checkoutHandler.SubmitPayment)
			r.Post("/fast/confirm", checkoutHandler.ConfirmFastCheckout)
			r.Post("/retry", checkoutHandler.Retry)
		})
	})

	return r
}
