package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/levelup-gamer/checkout/internal/domain"
)

// LocalOrderStore is the locally persisted order list used when the remote
// order service is unreachable, and as the source for the completed-order
// event publisher.
type LocalOrderStore interface {
	Append(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, code string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, code string, status domain.OrderStatus) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)

	// Unpublished lists completed orders not yet published to the event bus.
	Unpublished(ctx context.Context, limit int) ([]*domain.Order, error)
	MarkPublished(ctx context.Context, code string) error

	// StuckProcessing lists non-terminal orders created before the cutoff.
	StuckProcessing(ctx context.Context, olderThan time.Duration) ([]*domain.Order, error)
}

const (
	orderKeyPrefix = "orders:local:"
	userIndexKey   = "orders:local:user:"
	activeSetKey   = "orders:local:active"
	unpubSetKey    = "orders:local:unpublished"
)

func NewRedisOrderStore(client *redis.Client) *RedisOrderStore {
	return &RedisOrderStore{client: client, now: time.Now}
}

type RedisOrderStore struct {
	client *redis.Client
	now    func() time.Time
}

func (s *RedisOrderStore) Append(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order failed: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, orderKey(order.Code), data, 0)
	pipe.SAdd(ctx, userIndexKey+order.UserID, order.Code)
	if !order.Status.IsTerminal() {
		pipe.SAdd(ctx, activeSetKey, order.Code)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append failed: %w", err)
	}
	return nil
}

func (s *RedisOrderStore) Get(ctx context.Context, code string) (*domain.Order, error) {
	data, err := s.client.Get(ctx, orderKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("unmarshal order failed: %w", err)
	}
	return &order, nil
}

func (s *RedisOrderStore) UpdateStatus(ctx context.Context, code string, status domain.OrderStatus) error {
	order, err := s.Get(ctx, code)
	if err != nil {
		return err
	}

	order.Status = status
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order failed: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, orderKey(code), data, 0)
	if status.IsTerminal() {
		pipe.SRem(ctx, activeSetKey, code)
	}
	if status == domain.OrderStatusCompleted {
		pipe.SAdd(ctx, unpubSetKey, code)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis update failed: %w", err)
	}
	return nil
}

func (s *RedisOrderStore) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	codes, err := s.client.SMembers(ctx, userIndexKey+userID).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers failed: %w", err)
	}
	return s.fetch(ctx, codes, 0)
}

func (s *RedisOrderStore) Unpublished(ctx context.Context, limit int) ([]*domain.Order, error) {
	codes, err := s.client.SMembers(ctx, unpubSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers failed: %w", err)
	}
	return s.fetch(ctx, codes, limit)
}

func (s *RedisOrderStore) MarkPublished(ctx context.Context, code string) error {
	if err := s.client.SRem(ctx, unpubSetKey, code).Err(); err != nil {
		return fmt.Errorf("redis srem failed: %w", err)
	}
	return nil
}

func (s *RedisOrderStore) StuckProcessing(ctx context.Context, olderThan time.Duration) ([]*domain.Order, error) {
	codes, err := s.client.SMembers(ctx, activeSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers failed: %w", err)
	}

	orders, err := s.fetch(ctx, codes, 0)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().Add(-olderThan)
	var stuck []*domain.Order
	for _, order := range orders {
		if order.Status == domain.OrderStatusProcessing && order.CreatedAt.Before(cutoff) {
			stuck = append(stuck, order)
		}
	}
	return stuck, nil
}

func (s *RedisOrderStore) fetch(ctx context.Context, codes []string, limit int) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(codes))
	for _, code := range codes {
		if limit > 0 && len(orders) >= limit {
			break
		}
		order, err := s.Get(ctx, code)
		if errors.Is(err, ErrOrderNotFound) {
			continue // index entry outlived its order record
		}
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func orderKey(code string) string {
	return orderKeyPrefix + code
}
