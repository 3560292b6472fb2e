package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/levelup-gamer/checkout/internal/domain"
)

// Retention is how long a saved checkout record stays usable.
const Retention = 24 * time.Hour

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:    client,
		retention: Retention,
		now:       time.Now,
	}
}

type RedisStore struct {
	client    *redis.Client
	retention time.Duration
	now       func() time.Time
}

func (s *RedisStore) Save(ctx context.Context, userID string, patch domain.CheckoutMemory) error {
	key := memoryKey(userID)

	current, err := s.Load(ctx, userID)
	if err != nil {
		return err
	}

	// Field-wise merge, last write wins per field.
	if patch.Shipping != nil {
		current.Shipping = patch.Shipping
	}
	if patch.Payment != nil {
		current.Payment = patch.Payment
	}
	if patch.LastStep != "" {
		current.LastStep = patch.LastStep
	}
	current.SavedAt = s.now().UnixMilli()

	data, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("marshal checkout memory failed: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.retention).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, userID string) (domain.CheckoutMemory, error) {
	key := memoryKey(userID)

	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.CheckoutMemory{}, nil
	}
	if err != nil {
		return domain.CheckoutMemory{}, fmt.Errorf("redis get failed: %w", err)
	}

	var record domain.CheckoutMemory
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.CheckoutMemory{}, fmt.Errorf("unmarshal checkout memory failed: %w", err)
	}

	savedAt := time.UnixMilli(record.SavedAt)
	if s.now().Sub(savedAt) > s.retention {
		// Expired records are deleted on read; a best-effort delete failure
		// still yields an empty record to the caller.
		_ = s.client.Del(ctx, key).Err()
		return domain.CheckoutMemory{}, nil
	}

	return record, nil
}

func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, memoryKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func memoryKey(userID string) string {
	return fmt.Sprintf("checkout:memory:%s", userID)
}
