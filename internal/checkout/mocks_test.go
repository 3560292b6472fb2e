package checkout

import (
	"context"
	"time"

	"github.com/levelup-gamer/checkout/internal/cart"
	"github.com/levelup-gamer/checkout/internal/domain"
	"github.com/levelup-gamer/checkout/internal/lifecycle"
)

// MockCarts implements CartAccess for testing
type MockCarts struct {
	Cart     *cart.Cart
	GetErr   error
	ClearErr error
	Cleared  bool
}

func (m *MockCarts) GetCart(_ context.Context, userID string) (*cart.Cart, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Cart != nil {
		return m.Cart, nil
	}
	return &cart.Cart{UserID: userID}, nil
}

func (m *MockCarts) ClearCart(_ context.Context, _ string) error {
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.Cleared = true
	m.Cart = &cart.Cart{}
	return nil
}

// MockMemory implements memory.Store for testing
type MockMemory struct {
	Record   domain.CheckoutMemory
	SaveErr  error
	LoadErr  error
	ClearErr error
	Cleared  bool
	Saves    []domain.CheckoutMemory
}

func (m *MockMemory) Save(_ context.Context, _ string, patch domain.CheckoutMemory) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves = append(m.Saves, patch)
	if patch.Shipping != nil {
		m.Record.Shipping = patch.Shipping
	}
	if patch.Payment != nil {
		m.Record.Payment = patch.Payment
	}
	if patch.LastStep != "" {
		m.Record.LastStep = patch.LastStep
	}
	m.Record.SavedAt = time.Now().UnixMilli()
	return nil
}

func (m *MockMemory) Load(_ context.Context, _ string) (domain.CheckoutMemory, error) {
	if m.LoadErr != nil {
		return domain.CheckoutMemory{}, m.LoadErr
	}
	return m.Record, nil
}

func (m *MockMemory) Clear(_ context.Context, _ string) error {
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.Cleared = true
	m.Record = domain.CheckoutMemory{}
	return nil
}

// MockLifecycle implements OrderLifecycle for testing
type MockLifecycle struct {
	PriorOrders   int
	Payment       lifecycle.PaymentResult
	Submitted     []*domain.Order
	StatusUpdates map[string]domain.OrderStatus
}

func (m *MockLifecycle) CreateOrder(userID string, shipping domain.ShippingDetails, items []domain.CartLineItem, loyalty bool) *domain.Order {
	totals := domain.ComputeOrderTotals(items, loyalty)
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

func (m *MockLifecycle) SubmitOrder(_ context.Context, order *domain.Order) lifecycle.SubmitOutcome {
	m.Submitted = append(m.Submitted, order)
	return lifecycle.SubmitOutcome{Remote: true, Local: true}
}

func (m *MockLifecycle) ProcessPayment(_ context.Context, _ *domain.Order, _ string) lifecycle.PaymentResult {
	return m.Payment
}

func (m *MockLifecycle) UpdateOrderStatus(_ context.Context, code string, status domain.OrderStatus) {
	if m.StatusUpdates == nil {
		m.StatusUpdates = make(map[string]domain.OrderStatus)
	}
	m.StatusUpdates[code] = status
}

func (m *MockLifecycle) PriorCompletedOrders(_ context.Context, _ string) int {
	return m.PriorOrders
}
