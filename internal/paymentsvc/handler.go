// Package paymentsvc simulates the card processor: charges succeed most of
// the time, declines carry one of the standard issuer messages.
package paymentsvc

import (
	"encoding/json"
	"math/rand"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var declineMessages = []string{
	"Insufficient funds",
	"Card declined by issuer",
	"Card expired",
	"Transaction rejected by anti-fraud checks",
}

// GetChargeStatus decides the outcome of a charge. Injectable so tests drive
// deterministic approvals and declines.
type GetChargeStatus interface {
	GetStatus() (approved bool, declineMessage string)
}

type RandomStatus struct{}

func (RandomStatus) GetStatus() (bool, string) {
	if rand.Intn(100) < 90 {
		return true, ""
	}
	return false, declineMessages[rand.Intn(len(declineMessages))]
}

type ChargeRequest struct {
	OrderCode string `json:"order_code"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	CardToken string `json:"card_token"`
}

type ChargeResponse struct {
	Approved        bool   `json:"approved"`
	TransactionRef  string `json:"transaction_ref,omitempty"`
	ResponseMessage string `json:"response_message,omitempty"`
}

type Handler struct {
	status GetChargeStatus
	logger zerolog.Logger
}

func NewHandler(status GetChargeStatus, logger zerolog.Logger) *Handler {
	return &Handler{status: status, logger: logger}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/v1/charges", h.Charge)

	return r
}

// POST /api/v1/charges
func (h *Handler) Charge(w http.ResponseWriter, r *http.Request) {
	var req ChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.OrderCode == "" || req.CardToken == "" {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "order_code and card_token are required"})
		return
	}
	if req.Amount <= 0 {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
		return
	}

	approved, message := h.status.GetStatus()
	resp := ChargeResponse{Approved: approved}
	if approved {
		resp.TransactionRef = "TXN-" + uuid.NewString()
	} else {
		resp.ResponseMessage = message
	}

	h.logger.Info().
		Str("order_code", req.OrderCode).
		Int64("amount", req.Amount).
		Bool("approved", approved).
		Msg("charge processed")

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}
