package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkarpenko/steamarb/internal/domain"
)

// QuoteCache implements domain.QuoteCache. Each quote is stored as a JSON
// blob at key "quote:{provider}:{appID}:{itemName}" with a short TTL, since
// marketplace catalogs change slowly relative to how often items repeat
// across analysis runs.
type QuoteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewQuoteCache creates a QuoteCache backed by the given Client. ttl bounds
// staleness; zero falls back to one minute.
func NewQuoteCache(c *Client, ttl time.Duration) *QuoteCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &QuoteCache{rdb: c.Underlying(), ttl: ttl}
}

func quoteKey(provider string, appID int, itemName string) string {
	return "quote:" + provider + ":" + strconv.Itoa(appID) + ":" + itemName
}

// GetQuote retrieves a cached quote. It returns domain.ErrNotFound on a
// miss.
func (qc *QuoteCache) GetQuote(ctx context.Context, provider string, appID int, itemName string) (domain.Quote, error) {
	data, err := qc.rdb.Get(ctx, quoteKey(provider, appID, itemName)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Quote{}, domain.ErrNotFound
		}
		return domain.Quote{}, fmt.Errorf("redis: get quote: %w", err)
	}

	var q domain.Quote
	if err := json.Unmarshal(data, &q); err != nil {
		return domain.Quote{}, fmt.Errorf("redis: decode quote: %w", err)
	}
	return q, nil
}

// SetQuote stores a quote with the configured TTL.
func (qc *QuoteCache) SetQuote(ctx context.Context, provider string, appID int, itemName string, q domain.Quote) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("redis: encode quote: %w", err)
	}
	if err := qc.rdb.Set(ctx, quoteKey(provider, appID, itemName), data, qc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set quote: %w", err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.QuoteCache = (*QuoteCache)(nil)
