package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/levelup-gamer/checkout/internal/cart"
	"github.com/levelup-gamer/checkout/internal/session"
)

// CartService is the cart surface the handler exposes over HTTP.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*cart.Cart, error)
	UpsertCart(ctx context.Context, c *cart.Cart) error
	ClearCart(ctx context.Context, userID string) error
}

type CartHandler struct {
	carts   CartService
	timeout time.Duration
}

func NewCartHandler(carts CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

type UpsertCartRequestDTO struct {
	Items []cart.Item `json:"items"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	shopperCart, err := h.carts.GetCart(ctx, sess.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, shopperCart)
}

// PUT /api/v1/cart
func (h *CartHandler) UpsertCart(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpsertCartRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	for _, item := range req.Items {
		if item.ProductID == "" {
			respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
			return
		}
		if item.Quantity <= 0 || item.Quantity > 99 {
			respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
			return
		}
		if item.UnitPrice < 0 {
			respondError(w, http.StatusBadRequest, "invalid_unit_price", "unit_price must not be negative")
			return
		}
	}

	shopperCart := &cart.Cart{
		UserID: sess.UserID,
		Items:  req.Items,
	}
	if err := h.carts.UpsertCart(ctx, shopperCart); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, shopperCart)
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.carts.ClearCart(ctx, sess.UserID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
