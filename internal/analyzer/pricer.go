package analyzer

import (
	"context"
	"log/slog"

	"github.com/mkarpenko/steamarb/internal/domain"
)

// CachedPricer decorates a ReferencePricer with a read-through cache. Cache
// failures fall back to the underlying pricer; write failures only log.
type CachedPricer struct {
	next   ReferencePricer
	cache  domain.ReferencePriceCache
	logger *slog.Logger
}

// NewCachedPricer wraps next with the given cache.
func NewCachedPricer(next ReferencePricer, cache domain.ReferencePriceCache, logger *slog.Logger) *CachedPricer {
	return &CachedPricer{
		next:   next,
		cache:  cache,
		logger: logger.With(slog.String("component", "price_cache")),
	}
}

// ReferencePrice implements ReferencePricer.
func (c *CachedPricer) ReferencePrice(ctx context.Context, appID int, marketHashName string) (float64, error) {
	if price, err := c.cache.GetPrice(ctx, appID, marketHashName); err == nil {
		return price, nil
	}

	price, err := c.next.ReferencePrice(ctx, appID, marketHashName)
	if err != nil {
		return 0, err
	}

	if err := c.cache.SetPrice(ctx, appID, marketHashName, price); err != nil {
		c.logger.DebugContext(ctx, "price cache write failed",
			slog.String("item", marketHashName),
			slog.String("error", err.Error()),
		)
	}
	return price, nil
}

var _ ReferencePricer = (*CachedPricer)(nil)
