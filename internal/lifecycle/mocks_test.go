package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/levelup-gamer/checkout/internal/domain"
)

// MockOrdersClient implements OrdersClient for testing
type MockOrdersClient struct {
	CreateErr     error
	UpdateErr     error
	ListErr       error
	Created       []*domain.Order
	StatusUpdates map[string]domain.OrderStatus
	Orders        []*domain.Order
}

func (m *MockOrdersClient) CreateOrder(_ context.Context, order *domain.Order) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = append(m.Created, order)
	return nil
}

func (m *MockOrdersClient) UpdateOrderStatus(_ context.Context, code string, status domain.OrderStatus) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if m.StatusUpdates == nil {
		m.StatusUpdates = make(map[string]domain.OrderStatus)
	}
	m.StatusUpdates[code] = status
	return nil
}

func (m *MockOrdersClient) GetOrderByCode(_ context.Context, code string) (*domain.Order, error) {
	for _, order := range m.Orders {
		if order.Code == code {
			return order, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (m *MockOrdersClient) ListOrdersByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []*domain.Order
	for _, order := range m.Orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

// MockPaymentClient implements PaymentClient for testing
type MockPaymentClient struct {
	Response *ChargeResponse
	Err      error
	Requests []ChargeRequest
}

func (m *MockPaymentClient) Charge(_ context.Context, req ChargeRequest) (*ChargeResponse, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

// MemoryOrderStore implements LocalOrderStore in memory for testing
type MemoryOrderStore struct {
	mu          sync.Mutex
	AppendErr   error
	UpdateErr   error
	orders      map[string]*domain.Order
	unpublished map[string]bool
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{
		orders:      make(map[string]*domain.Order),
		unpublished: make(map[string]bool),
	}
}

func (m *MemoryOrderStore) Append(_ context.Context, order *domain.Order) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *order
	m.orders[order.Code] = &copied
	return nil
}

func (m *MemoryOrderStore) Get(_ context.Context, code string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[code]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (m *MemoryOrderStore) UpdateStatus(_ context.Context, code string, status domain.OrderStatus) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[code]
	if !ok {
		return ErrOrderNotFound
	}
	order.Status = status
	if status == domain.OrderStatusCompleted {
		m.unpublished[code] = true
	}
	return nil
}

func (m *MemoryOrderStore) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (m *MemoryOrderStore) Unpublished(_ context.Context, limit int) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Order
	for code := range m.unpublished {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, m.orders[code])
	}
	return out, nil
}

func (m *MemoryOrderStore) MarkPublished(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.unpublished, code)
	return nil
}

func (m *MemoryOrderStore) StuckProcessing(_ context.Context, olderThan time.Duration) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	var out []*domain.Order
	for _, order := range m.orders {
		if order.Status == domain.OrderStatusProcessing && order.CreatedAt.Before(cutoff) {
			out = append(out, order)
		}
	}
	return out, nil
}

// FixedOutcome implements OutcomeSource with a canned result
type FixedOutcome struct {
	Approved bool
	Message  string
}

func (f FixedOutcome) Outcome() (bool, string) {
	return f.Approved, f.Message
}
