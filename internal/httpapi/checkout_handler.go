package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/levelup-gamer/checkout/internal/checkout"
	"github.com/levelup-gamer/checkout/internal/domain"
	"github.com/levelup-gamer/checkout/internal/session"
)

// CheckoutService is the flow surface the handler exposes over HTTP.
type CheckoutService interface {
	Enter(ctx context.Context, sess session.Session) (*checkout.Flow, error)
	SubmitShipping(ctx context.Context, sess session.Session, details domain.ShippingDetails, save bool) (*checkout.Flow, error)
	ConfirmSummary(ctx context.Context, sess session.Session) (*checkout.Flow, error)
	SubmitPayment(ctx context.Context, sess session.Session, card domain.CardDetails) (*checkout.Flow, error)
	ConfirmFastCheckout(ctx context.Context, sess session.Session) (*checkout.Flow, error)
	Retry(ctx context.Context, sess session.Session) (*checkout.Flow, error)
	Abandon(ctx context.Context, sess session.Session)
	Current(ctx context.Context, sess session.Session) (*checkout.Flow, error)
}

type CheckoutHandler struct {
	service CheckoutService
	timeout time.Duration
}

func NewCheckoutHandler(service CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		timeout: timeout,
	}
}

type LineItemDTO struct {
	ProductID   string `json:"product_id"`
	DisplayName string `json:"display_name"`
	UnitPrice   int64  `json:"unit_price"`
	ImageURL    string `json:"image_url"`
	Quantity    int    `json:"quantity"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
}

type TotalsDTO struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

type PaymentReferenceDTO struct {
	CardholderName string `json:"cardholder_name"`
	MaskedNumber   string `json:"masked_number"`
	Expiry         string `json:"expiry"`
}

type OrderDTO struct {
	Code      string    `json:"code"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Total     int64     `json:"total"`
}

type FlowResponseDTO struct {
	Step          string                  `json:"step"`
	Items         []LineItemDTO           `json:"items"`
	Loyalty       bool                    `json:"loyalty"`
	Totals        TotalsDTO               `json:"totals"`
	Shipping      *domain.ShippingDetails `json:"shipping,omitempty"`
	Payment       *PaymentReferenceDTO    `json:"payment,omitempty"`
	Order         *OrderDTO               `json:"order,omitempty"`
	TransactionID string                  `json:"transaction_id,omitempty"`
	ErrorMessage  string                  `json:"error_message,omitempty"`
}

type SubmitShippingRequestDTO struct {
	Shipping domain.ShippingDetails `json:"shipping"`
	Save     bool                   `json:"save"`
}

type SubmitPaymentRequestDTO struct {
	CardNumber     string `json:"card_number"`
	CardholderName string `json:"cardholder_name"`
	Expiry         string `json:"expiry"`
	CVV            string `json:"cvv"`
}

func convertFlow(flow *checkout.Flow) FlowResponseDTO {
	items := make([]LineItemDTO, 0, len(flow.Items))
	for _, item := range flow.Items {
		items = append(items, LineItemDTO{
			ProductID:   item.ID,
			DisplayName: item.DisplayName,
			UnitPrice:   item.UnitPrice,
			ImageURL:    item.ImageURL,
			Quantity:    item.Quantity,
			Category:    item.Category,
			Subcategory: item.Subcategory,
		})
	}

	dto := FlowResponseDTO{
		Step:    flow.Step.String(),
		Items:   items,
		Loyalty: flow.Loyalty,
		Totals: TotalsDTO{
			Subtotal: flow.Totals.Subtotal,
			Discount: flow.Totals.Discount,
			Tax:      flow.Totals.Tax,
			Total:    flow.Totals.Total,
		},
		Shipping:      flow.Shipping,
		TransactionID: flow.TransactionID,
		ErrorMessage:  flow.ErrorMessage,
	}
	if flow.Payment != nil {
		// the opaque token stays server side
		dto.Payment = &PaymentReferenceDTO{
			CardholderName: flow.Payment.CardholderName,
			MaskedNumber:   flow.Payment.MaskedNumber,
			Expiry:         flow.Payment.Expiry,
		}
	}
	if flow.Order != nil {
		dto.Order = &OrderDTO{
			Code:      flow.Order.Code,
			Status:    flow.Order.Status.String(),
			CreatedAt: flow.Order.CreatedAt,
			Total:     flow.Order.Total,
		}
	}
	return dto
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Enter(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	flow, err := h.service.Enter(ctx, sess)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, convertFlow(flow))
}

// GET /api/v1/checkout
func (h *CheckoutHandler) Current(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	flow, err := h.service.Current(r.Context(), sess)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertFlow(flow))
}

// PUT /api/v1/checkout/shipping
func (h *CheckoutHandler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SubmitShippingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	flow, err := h.service.SubmitShipping(ctx, sess, req.Shipping, req.Save)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertFlow(flow))
}

// POST /api/v1/checkout/summary/confirm
func (h *CheckoutHandler) ConfirmSummary(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	flow, err := h.service.ConfirmSummary(ctx, sess)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertFlow(flow))
}

// POST /api/v1/checkout/payment
func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SubmitPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	card := domain.CardDetails{
		CardNumber:     req.CardNumber,
		CardholderName: req.CardholderName,
		Expiry:         req.Expiry,
		CVV:            req.CVV,
	}

	flow, err := h.service.SubmitPayment(ctx, sess, card)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertFlow(flow))
}

// POST /api/v1/checkout/fast/confirm
func (h *CheckoutHandler) ConfirmFastCheckout(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	flow, err := h.service.ConfirmFastCheckout(ctx, sess)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertFlow(flow))
}

// POST /api/v1/checkout/retry
func (h *CheckoutHandler) Retry(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	flow, err := h.service.Retry(ctx, sess)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertFlow(flow))
}

// DELETE /api/v1/checkout
func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	h.service.Abandon(r.Context(), sess)
	w.WriteHeader(http.StatusNoContent)
}
