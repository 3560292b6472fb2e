// Package lifecycle owns the order from creation to its terminal status.
// Every remote failure degrades to local or simulated behavior; nothing in
// this package raises an error to the checkout flow.
package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/levelup-gamer/checkout/internal/domain"
)

const Currency = "CLP"

// FallbackDelay mimics processor latency on the simulated payment path.
const FallbackDelay = 2 * time.Second

// SubmitOutcome records which of the two writes of a best-effort order
// submission landed. Both may be true; neither is transactional.
type SubmitOutcome struct {
	Remote bool
	Local  bool
}

// PaymentResult is the first-class outcome of a charge attempt. Exactly one
// of TransactionID or ErrorMessage is populated.
type PaymentResult struct {
	Approved      bool
	TransactionID string
	ErrorMessage  string
}

type Manager struct {
	orders        OrdersClient
	payments      PaymentClient
	local         LocalOrderStore
	outcome       OutcomeSource
	fallbackDelay time.Duration
	logger        zerolog.Logger
}

func NewManager(orders OrdersClient, payments PaymentClient, local LocalOrderStore, logger zerolog.Logger) *Manager {
	return &Manager{
		orders:        orders,
		payments:      payments,
		local:         local,
		outcome:       RandomOutcome{},
		fallbackDelay: FallbackDelay,
		logger:        logger,
	}
}

// WithOutcomeSource replaces the simulated payment outcome source.
func (m *Manager) WithOutcomeSource(src OutcomeSource, delay time.Duration) *Manager {
	m.outcome = src
	m.fallbackDelay = delay
	return m
}

// CreateOrder snapshots the cart into a fresh pending order. A retry never
// reuses an order; callers create a new one with a new code.
func (m *Manager) CreateOrder(userID string, shipping domain.ShippingDetails, items []domain.CartLineItem, applyLoyaltyDiscount bool) *domain.Order {
	totals := domain.ComputeOrderTotals(items, applyLoyaltyDiscount)

	return &domain.Order{
		Code:      domain.GenerateOrderCode(),
		UserID:    userID,
		CreatedAt: time.Now(),
		Shipping:  shipping,
		Items:     items,
		Subtotal:  totals.Subtotal,
		Discount:  totals.Discount,
		Tax:       totals.Tax,
		Total:     totals.Total,
		Status:    domain.OrderStatusPending,
	}
}

// SubmitOrder persists the order to the remote order service and to the local
// fallback list. The local write is not skipped on remote success: losing a
// receipt is worse than storing it twice.
func (m *Manager) SubmitOrder(ctx context.Context, order *domain.Order) SubmitOutcome {
	var outcome SubmitOutcome

	if err := m.orders.CreateOrder(ctx, order); err != nil {
		m.logger.Warn().Err(err).Str("order_code", order.Code).Msg("remote order submit failed")
	} else {
		outcome.Remote = true
	}

	if err := m.local.Append(ctx, order); err != nil {
		m.logger.Warn().Err(err).Str("order_code", order.Code).Msg("local order append failed")
	} else {
		outcome.Local = true
	}

	return outcome
}

// ProcessPayment charges the order. Remote transport failures and non-OK
// responses degrade to the simulated outcome source after an artificial
// delay; an explicit remote decline is surfaced as-is. Never returns an error.
func (m *Manager) ProcessPayment(ctx context.Context, order *domain.Order, cardToken string) PaymentResult {
	resp, err := m.payments.Charge(ctx, ChargeRequest{
		OrderCode: order.Code,
		Amount:    order.Total,
		Currency:  Currency,
		CardToken: cardToken,
	})
	if err != nil {
		m.logger.Warn().Err(err).Str("order_code", order.Code).Msg("remote charge failed, simulating outcome")
		return m.simulateOutcome()
	}

	if resp.Approved {
		return PaymentResult{Approved: true, TransactionID: resp.TransactionRef}
	}

	message := resp.ResponseMessage
	if message == "" {
		message = "Payment was declined"
	}
	return PaymentResult{ErrorMessage: message}
}

func (m *Manager) simulateOutcome() PaymentResult {
	time.Sleep(m.fallbackDelay)

	approved, message := m.outcome.Outcome()
	if approved {
		return PaymentResult{Approved: true, TransactionID: "TXN-" + uuid.NewString()}
	}
	return PaymentResult{ErrorMessage: message}
}

// UpdateOrderStatus propagates a status change to the remote order service
// and to the local fallback list, best-effort on both sides.
func (m *Manager) UpdateOrderStatus(ctx context.Context, code string, status domain.OrderStatus) {
	if err := m.orders.UpdateOrderStatus(ctx, code, status); err != nil {
		m.logger.Warn().Err(err).Str("order_code", code).Msg("remote status update failed")
	}

	err := m.local.UpdateStatus(ctx, code, status)
	if err != nil && !errors.Is(err, ErrOrderNotFound) {
		m.logger.Warn().Err(err).Str("order_code", code).Msg("local status update failed")
	}
}

// PriorCompletedOrders counts the shopper's completed purchases, degrading
// from the remote list to the local fallback list and finally to zero.
func (m *Manager) PriorCompletedOrders(ctx context.Context, userID string) int {
	orders, err := m.orders.ListOrdersByUserID(ctx, userID)
	if err != nil {
		m.logger.Debug().Err(err).Str("user_id", userID).Msg("remote order list failed, using local list")
		orders, err = m.local.ListByUser(ctx, userID)
		if err != nil {
			return 0
		}
	}

	count := 0
	for _, order := range orders {
		if order.Status == domain.OrderStatusCompleted {
			count++
		}
	}
	return count
}
