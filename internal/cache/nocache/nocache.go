// Package nocache provides pass-through implementations of the domain cache
// interfaces for deployments that run without Redis. Every read misses,
// every write is dropped, and the rate limiter fails open.
package nocache

import (
	"context"
	"time"

	"github.com/mkarpenko/steamarb/internal/domain"
)

// QuoteCache never holds a quote.
type QuoteCache struct{}

// GetQuote always misses.
func (QuoteCache) GetQuote(ctx context.Context, provider string, appID int, itemName string) (domain.Quote, error) {
	return domain.Quote{}, domain.ErrNotFound
}

// SetQuote drops the quote.
func (QuoteCache) SetQuote(ctx context.Context, provider string, appID int, itemName string, q domain.Quote) error {
	return nil
}

// PriceCache never holds a price.
type PriceCache struct{}

// GetPrice always misses.
func (PriceCache) GetPrice(ctx context.Context, appID int, itemName string) (float64, error) {
	return 0, domain.ErrNotFound
}

// SetPrice drops the price.
func (PriceCache) SetPrice(ctx context.Context, appID int, itemName string, price float64) error {
	return nil
}

// RateLimiter allows everything.
type RateLimiter struct{}

// Allow always permits the request.
func (RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return true, nil
}

var (
	_ domain.QuoteCache          = QuoteCache{}
	_ domain.ReferencePriceCache = PriceCache{}
	_ domain.RateLimiter         = RateLimiter{}
)
