package lifecycle

import (
	"context"
	"errors"

	"github.com/levelup-gamer/checkout/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// OrdersClient talks to the remote order service. Implementations surface
// transport and non-OK responses as errors; the Manager decides how to
// degrade.
type OrdersClient interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	UpdateOrderStatus(ctx context.Context, code string, status domain.OrderStatus) error
	GetOrderByCode(ctx context.Context, code string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
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

// PaymentClient talks to the remote payment processor. A declined charge is a
// successful call with Approved=false, not an error.
type PaymentClient interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error)
}
