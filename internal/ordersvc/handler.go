package ordersvc

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/levelup-gamer/checkout/internal/domain"
)

type Handler struct {
	repo   OrderRepository
	logger zerolog.Logger
}

func NewHandler(repo OrderRepository, logger zerolog.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Router mounts the order-of-record API.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{code}", h.GetOrder)
		r.Patch("/{code}/status", h.UpdateStatus)
	})

	return r
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// POST /api/v1/orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var order domain.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if order.Code == "" || order.UserID == "" {
		h.respondError(w, http.StatusBadRequest, "invalid_order", "code and user_id are required")
		return
	}
	if order.Total <= 0 || len(order.Items) == 0 {
		h.respondError(w, http.StatusBadRequest, "invalid_order", "order must carry items and a positive total")
		return
	}

	if err := h.repo.CreateOrder(r.Context(), &order); err != nil {
		if errors.Is(err, ErrDuplicateOrder) {
			h.respondError(w, http.StatusConflict, "duplicate_order", "order with this code already exists")
			return
		}
		h.logger.Error().Err(err).Str("order_code", order.Code).Msg("create order failed")
		h.respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	h.respondJSON(w, http.StatusCreated, order)
}

// GET /api/v1/orders/{code}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	order, err := h.repo.GetOrderByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			h.respondError(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		h.logger.Error().Err(err).Str("order_code", code).Msg("get order failed")
		h.respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	h.respondJSON(w, http.StatusOK, order)
}

// GET /api/v1/orders?user_id=
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		h.respondError(w, http.StatusBadRequest, "missing_user_id", "user_id is required")
		return
	}

	orders, err := h.repo.ListOrdersByUserID(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("list orders failed")
		h.respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	if orders == nil {
		orders = make([]*domain.Order, 0)
	}
	h.respondJSON(w, http.StatusOK, orders)
}

// PATCH /api/v1/orders/{code}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	status := domain.OrderStatus(req.Status)
	switch status {
	case domain.OrderStatusPending, domain.OrderStatusProcessing, domain.OrderStatusCompleted, domain.OrderStatusFailed:
	default:
		h.respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	if err := h.repo.UpdateOrderStatus(r.Context(), code, status); err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			h.respondError(w, http.StatusNotFound, "not_found", "order not found")
		case errors.Is(err, ErrBadTransition):
			h.respondError(w, http.StatusConflict, "illegal_transition", err.Error())
		default:
			h.logger.Error().Err(err).Str("order_code", code).Msg("update status failed")
			h.respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"code": code, "status": req.Status})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, code, message string) {
	h.respondJSON(w, status, errorResponse{Error: message, Code: code})
}
