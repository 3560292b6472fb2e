package cart

import (
	"context"
	"errors"
)

var ErrCartNotFound = errors.New("cart not found")

type Repository interface {
	GetCart(ctx context.Context, userID string) (*Cart, error)
	UpsertCart(ctx context.Context, cart *Cart) error
	DeleteCart(ctx context.Context, userID string) error
}
