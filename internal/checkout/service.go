// Package checkout drives the multi-step purchase flow: shipping form,
// summary, payment (or one-click fast checkout), processing and the terminal
// success/failure states, with retry from failure back to payment.
package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/levelup-gamer/checkout/internal/cart"
	"github.com/levelup-gamer/checkout/internal/domain"
	"github.com/levelup-gamer/checkout/internal/lifecycle"
	"github.com/levelup-gamer/checkout/internal/memory"
	"github.com/levelup-gamer/checkout/internal/session"
)

// CartAccess is the slice of the cart service the flow needs.
type CartAccess interface {
	GetCart(ctx context.Context, userID string) (*cart.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

// OrderLifecycle is the slice of the lifecycle manager the flow needs.
type OrderLifecycle interface {
	CreateOrder(userID string, shipping domain.ShippingDetails, items []domain.CartLineItem, applyLoyaltyDiscount bool) *domain.Order
	SubmitOrder(ctx context.Context, order *domain.Order) lifecycle.SubmitOutcome
	ProcessPayment(ctx context.Context, order *domain.Order, cardToken string) lifecycle.PaymentResult
	UpdateOrderStatus(ctx context.Context, code string, status domain.OrderStatus)
	PriorCompletedOrders(ctx context.Context, userID string) int
}

type Config struct {
	LoyaltyDomains []string

	// ClearMemoryOnSuccess also clears the checkout memory when a standard
	// (non-fast) purchase completes. The storefront historically cleared it
	// only on the fast path; keep the default off until product decides.
	ClearMemoryOnSuccess bool
}

type Service struct {
	flows     *FlowRegistry
	memory    memory.Store
	carts     CartAccess
	lifecycle OrderLifecycle
	cfg       Config
	logger    zerolog.Logger
}

func NewService(flows *FlowRegistry, mem memory.Store, carts CartAccess, lc OrderLifecycle, cfg Config, logger zerolog.Logger) *Service {
	if len(cfg.LoyaltyDomains) == 0 {
		cfg.LoyaltyDomains = session.DefaultLoyaltyDomains
	}
	return &Service{
		flows:     flows,
		memory:    mem,
		carts:     carts,
		lifecycle: lc,
		cfg:       cfg,
		logger:    logger,
	}
}

// Enter starts (or restarts) the checkout flow for an authenticated shopper
// with a non-empty cart. The resume step is resolved once, here.
func (s *Service) Enter(ctx context.Context, sess session.Session) (*Flow, error) {
	shopperCart, err := s.carts.GetCart(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	items := shopperCart.Snapshot()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	mem, err := s.memory.Load(ctx, sess.UserID)
	if err != nil {
		// A broken memory store only costs the shopper pre-filled forms.
		s.logger.Warn().Err(err).Str("user_id", sess.UserID).Msg("checkout memory load failed")
		mem = domain.CheckoutMemory{}
	}

	priorOrders := s.lifecycle.PriorCompletedOrders(ctx, sess.UserID)
	step := ResolveStep(mem, priorOrders > 0)
	loyalty := session.EligibleForLoyalty(sess.Email, s.cfg.LoyaltyDomains)

	flow := &Flow{
		UserID:   sess.UserID,
		Step:     step,
		Items:    items,
		Loyalty:  loyalty,
		Totals:   domain.ComputeOrderTotals(items, loyalty),
		Shipping: mem.Shipping,
		Payment:  mem.Payment,
		FastPath: step == domain.StepFastCheckout,
	}
	s.flows.Put(flow)

	flow.mu.Lock()
	defer flow.mu.Unlock()
	return flow.snapshot(), nil
}

// SubmitShipping validates and records the shipping form, persisting it for
// later visits unless the shopper opted out of saving.
func (s *Service) SubmitShipping(ctx context.Context, sess session.Session, details domain.ShippingDetails, save bool) (*Flow, error) {
	flow, ok := s.flows.Get(sess.UserID)
	if !ok {
		return nil, ErrNoActiveFlow
	}
	if !details.Complete() {
		return nil, ErrShippingIncomplete
	}

	flow.mu.Lock()
	defer flow.mu.Unlock()
	if err := flow.advance(domain.StepSummary); err != nil {
		return nil, err
	}

	flow.Shipping = &details
	if save {
		s.saveMemory(ctx, sess.UserID, domain.CheckoutMemory{
			Shipping: &details,
			LastStep: domain.StepSummary,
		})
	}
	return flow.snapshot(), nil
}

// ConfirmSummary acknowledges the order summary. No data changes.
func (s *Service) ConfirmSummary(_ context.Context, sess session.Session) (*Flow, error) {
	flow, ok := s.flows.Get(sess.UserID)
	if !ok {
		return nil, ErrNoActiveFlow
	}

	flow.mu.Lock()
	defer flow.mu.Unlock()
	if err := flow.advance(domain.StepPayment); err != nil {
		return nil, err
	}
	return flow.snapshot(), nil
}

// SubmitPayment validates the card form, exchanges it for a stored payment
// reference and runs the purchase.
func (s *Service) SubmitPayment(ctx context.Context, sess session.Session, card domain.CardDetails) (*Flow, error) {
	flow, ok := s.flows.Get(sess.UserID)
	if !ok {
		return nil, ErrNoActiveFlow
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}

	flow.mu.Lock()
	defer flow.mu.Unlock()
	if err := flow.advance(domain.StepProcessing); err != nil {
		return nil, err
	}

	reference := domain.PaymentReference{
		CardholderName: card.CardholderName,
		MaskedNumber:   card.MaskedNumber(),
		Expiry:         card.Expiry,
		Token:          uuid.NewString(),
	}
	flow.Payment = &reference
	s.saveMemory(ctx, sess.UserID, domain.CheckoutMemory{
		Payment:  &reference,
		LastStep: domain.StepPayment,
	})

	s.process(ctx, flow)
	return flow.snapshot(), nil
}

// ConfirmFastCheckout runs the one-click purchase from previously stored
// shipping and payment data.
func (s *Service) ConfirmFastCheckout(ctx context.Context, sess session.Session) (*Flow, error) {
	flow, ok := s.flows.Get(sess.UserID)
	if !ok {
		return nil, ErrNoActiveFlow
	}
	flow.mu.Lock()
	defer flow.mu.Unlock()
	if flow.Shipping == nil || !flow.Shipping.Complete() || flow.Payment == nil || !flow.Payment.Complete() {
		return nil, ErrMissingStoredData
	}
	if err := flow.advance(domain.StepProcessing); err != nil {
		return nil, err
	}

	s.process(ctx, flow)
	return flow.snapshot(), nil
}

// Retry re-enters the payment step after a failed purchase. The stored card
// reference stays for pre-filling; the next attempt gets a fresh order.
func (s *Service) Retry(_ context.Context, sess session.Session) (*Flow, error) {
	flow, ok := s.flows.Get(sess.UserID)
	if !ok {
		return nil, ErrNoActiveFlow
	}
	flow.mu.Lock()
	defer flow.mu.Unlock()
	if err := flow.advance(domain.StepPayment); err != nil {
		return nil, err
	}

	flow.Order = nil
	flow.ErrorMessage = ""
	return flow.snapshot(), nil
}

// Abandon drops the flow without touching order or memory state.
func (s *Service) Abandon(_ context.Context, sess session.Session) {
	s.flows.Delete(sess.UserID)
}

// Current returns the shopper's in-flight flow, e.g. for the receipt view.
func (s *Service) Current(_ context.Context, sess session.Session) (*Flow, error) {
	flow, ok := s.flows.Get(sess.UserID)
	if !ok {
		return nil, ErrNoActiveFlow
	}

	flow.mu.Lock()
	defer flow.mu.Unlock()
	return flow.snapshot(), nil
}

// process runs the purchase: create the order, submit it (best-effort dual
// write), charge, then settle the terminal step. Remote failures never abort
// the flow; they degrade inside the lifecycle manager. Callers hold flow.mu,
// so a concurrent duplicate submission waits here and then fails its own
// step transition instead of charging twice.
func (s *Service) process(ctx context.Context, flow *Flow) {
	order := s.lifecycle.CreateOrder(flow.UserID, *flow.Shipping, flow.Items, flow.Loyalty)
	flow.Order = order

	s.lifecycle.SubmitOrder(ctx, order)
	s.lifecycle.UpdateOrderStatus(ctx, order.Code, domain.OrderStatusProcessing)
	order.Status = domain.OrderStatusProcessing

	result := s.lifecycle.ProcessPayment(ctx, order, flow.Payment.Token)
	if !result.Approved {
		s.lifecycle.UpdateOrderStatus(ctx, order.Code, domain.OrderStatusFailed)
		order.Status = domain.OrderStatusFailed
		flow.ErrorMessage = result.ErrorMessage
		if err := flow.advance(domain.StepFailed); err != nil {
			s.logger.Error().Err(err).Str("order_code", order.Code).Msg("failed settling flow")
		}
		return
	}

	s.lifecycle.UpdateOrderStatus(ctx, order.Code, domain.OrderStatusCompleted)
	order.Status = domain.OrderStatusCompleted
	flow.TransactionID = result.TransactionID

	if err := s.carts.ClearCart(ctx, flow.UserID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", flow.UserID).Msg("cart clear failed after purchase")
	}

	if flow.FastPath || s.cfg.ClearMemoryOnSuccess {
		if err := s.memory.Clear(ctx, flow.UserID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", flow.UserID).Msg("checkout memory clear failed")
		}
	}

	if err := flow.advance(domain.StepSucceeded); err != nil {
		s.logger.Error().Err(err).Str("order_code", order.Code).Msg("failed settling flow")
	}
}

// saveMemory persists checkout progress; a failed save never blocks the step.
func (s *Service) saveMemory(ctx context.Context, userID string, patch domain.CheckoutMemory) {
	if err := s.memory.Save(ctx, userID, patch); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("checkout memory save failed")
	}
}
