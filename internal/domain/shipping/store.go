// internal/domain/shipping/store.go
package shipping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
)

// QuoteStore persists the active shipping quote for a shopper between
// requests. A missing quote loads as an unset quote, never an error.
type QuoteStore interface {
	Load(ctx context.Context, userID uint) (Quote, error)
	Save(ctx context.Context, userID uint, quote Quote) error
	Delete(ctx context.Context, userID uint) error
}

const quoteTTL = 24 * time.Hour

// RedisQuoteStore keeps quotes in Redis keyed by user id.
type RedisQuoteStore struct {
	client *redis.Client
}

// NewRedisQuoteStore creates a Redis-backed quote store.
func NewRedisQuoteStore(client *redis.Client) *RedisQuoteStore {
	return &RedisQuoteStore{client: client}
}

func quoteKey(userID uint) string {
	return fmt.Sprintf("shipping_quote:user:%d", userID)
}

// Load retrieves the stored quote for a user.
func (s *RedisQuoteStore) Load(ctx context.Context, userID uint) (Quote, error) {
	var quote Quote
	err := s.client.GetJSON(ctx, quoteKey(userID), &quote)
	if errors.Is(err, redis.ErrCacheMiss) {
		return unsetQuote(), nil
	}
	if err != nil {
		return unsetQuote(), fmt.Errorf("failed to load shipping quote: %w", err)
	}
	return quote, nil
}

// Save stores the quote for a user. Unset quotes are stored as a delete.
func (s *RedisQuoteStore) Save(ctx context.Context, userID uint, quote Quote) error {
	if !quote.IsSet() {
		return s.Delete(ctx, userID)
	}
	if err := s.client.SetJSON(ctx, quoteKey(userID), quote, quoteTTL); err != nil {
		return fmt.Errorf("failed to save shipping quote: %w", err)
	}
	return nil
}

// Delete removes the stored quote for a user.
func (s *RedisQuoteStore) Delete(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, quoteKey(userID)); err != nil {
		return fmt.Errorf("failed to delete shipping quote: %w", err)
	}
	return nil
}
