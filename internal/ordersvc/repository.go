// Package ordersvc is the order-of-record service: orders land in postgres
// keyed by their order code and expose a small JSON API for the checkout
// backend.
package ordersvc

import (
	"context"
	"errors"

	"github.com/levelup-gamer/checkout/internal/domain"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order with this code already exists")
	ErrBadTransition  = errors.New("illegal order status transition")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByCode(ctx context.Context, code string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, code string, status domain.OrderStatus) error
	RunMigrations(*Credentials) error
	Close() error
}
