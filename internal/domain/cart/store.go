// internal/domain/cart/store.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
)

// Store persists carts between requests, keyed by user id. The Cart
// value itself stays free of any session notion; this is the edge that
// knows where carts live.
type Store interface {
	Load(ctx context.Context, userID uint) (*Cart, error)
	Save(ctx context.Context, userID uint, cart *Cart) error
	Delete(ctx context.Context, userID uint) error
}

const cartTTL = 24 * time.Hour

// RedisStore keeps carts in Redis as JSON with a sliding TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed cart store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func cartKey(userID uint) string {
	return fmt.Sprintf("cart:user:%d", userID)
}

// Load retrieves a user's cart. A missing key loads as an empty cart.
func (s *RedisStore) Load(ctx context.Context, userID uint) (*Cart, error) {
	var cart Cart
	err := s.client.GetJSON(ctx, cartKey(userID), &cart)
	if errors.Is(err, redis.ErrCacheMiss) {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &cart, nil
}

// Save stores a user's cart. Empty carts are stored as a delete so
// abandoned keys do not linger.
func (s *RedisStore) Save(ctx context.Context, userID uint, cart *Cart) error {
	if cart.IsEmpty() {
		return s.Delete(ctx, userID)
	}
	if err := s.client.SetJSON(ctx, cartKey(userID), cart, cartTTL); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete removes a user's cart.
func (s *RedisStore) Delete(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, cartKey(userID)); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
