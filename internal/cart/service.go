package cart

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type Service struct {
	repo   Repository
	cache  Cache
	sfg    singleflight.Group // Prevents cache stampede
	logger zerolog.Logger
}

func NewService(repo Repository, cache Cache, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *Service) GetCart(ctx context.Context, userID string) (*Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn().Err(err).Msg("cart cache get failed") // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, userID)
		if errors.Is(errGet, ErrCartNotFound) { // not found cart return empty cart
			return &Cart{
				UserID:    userID,
				Items:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), userID, cart); errSet != nil {
				s.logger.Warn().Err(errSet).Msg("cart cache set failed")
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*Cart), nil
}

func (s *Service) UpsertCart(ctx context.Context, cart *Cart) error {
	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		return err
	}

	s.invalidateCache(cart.UserID)
	return nil
}

// ClearCart empties the shopper's cart after a completed purchase.
func (s *Service) ClearCart(ctx context.Context, userID string) error {
	errDelete := s.repo.DeleteCart(ctx, userID)
	if errDelete != nil && !errors.Is(errDelete, ErrCartNotFound) {
		return errDelete
	}

	s.invalidateCache(userID)
	return nil
}

func (s *Service) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Msg("cart cache invalidate failed")
	}
}
