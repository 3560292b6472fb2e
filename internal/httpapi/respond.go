package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/levelup-gamer/checkout/internal/checkout"
	"github.com/levelup-gamer/checkout/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps flow and validation errors to HTTP status codes.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "cart is empty")
	case errors.Is(err, checkout.ErrNoActiveFlow):
		respondError(w, http.StatusNotFound, "no_active_flow", "no checkout in progress")
	case errors.Is(err, checkout.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", "action not allowed from the current step")
	case errors.Is(err, checkout.ErrShippingIncomplete):
		respondError(w, http.StatusBadRequest, "shipping_incomplete", "all mandatory shipping fields are required")
	case errors.Is(err, checkout.ErrMissingStoredData):
		respondError(w, http.StatusConflict, "missing_stored_data", "stored shipping and payment data are required for fast checkout")
	case errors.Is(err, domain.ErrCardNumberInvalid),
		errors.Is(err, domain.ErrCardNameRequired),
		errors.Is(err, domain.ErrCardExpiryInvalid),
		errors.Is(err, domain.ErrCardCVVInvalid):
		respondError(w, http.StatusBadRequest, "invalid_card", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
