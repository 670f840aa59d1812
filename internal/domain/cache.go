package domain

import (
	"context"
	"time"
)

// ReferencePriceCache caches Steam market reference prices so repeated
// analyses of overlapping inventories do not hammer the priceoverview
// endpoint. Implementations return ErrNotFound on a miss.
type ReferencePriceCache interface {
	GetPrice(ctx context.Context, appID int, itemName string) (float64, error)
	SetPrice(ctx context.Context, appID int, itemName string, price float64) error
}

// QuoteCache caches a provider's quote for an item for a short TTL. Upstream
// price catalogs change slowly, so tens of seconds of staleness is fine.
// Implementations return ErrNotFound on a miss.
type QuoteCache interface {
	GetQuote(ctx context.Context, provider string, appID int, itemName string) (Quote, error)
	SetQuote(ctx context.Context, provider string, appID int, itemName string, q Quote) error
}

// RateLimiter limits how often a keyed action may happen inside a window.
// Used by the HTTP middleware to throttle per-client API traffic.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
