package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkarpenko/steamarb/internal/domain"
)

// PriceCache implements domain.ReferencePriceCache. Each reference price is
// stored as a plain string at key "refprice:{appID}:{itemName}" with a short
// TTL.
type PriceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPriceCache creates a PriceCache backed by the given Client. ttl bounds
// staleness; zero falls back to one minute.
func NewPriceCache(c *Client, ttl time.Duration) *PriceCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &PriceCache{rdb: c.Underlying(), ttl: ttl}
}

func refPriceKey(appID int, itemName string) string {
	return "refprice:" + strconv.Itoa(appID) + ":" + itemName
}

// GetPrice retrieves a cached reference price. It returns domain.ErrNotFound
// on a miss.
func (pc *PriceCache) GetPrice(ctx context.Context, appID int, itemName string) (float64, error) {
	val, err := pc.rdb.Get(ctx, refPriceKey(appID, itemName)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("redis: get reference price: %w", err)
	}

	price, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("redis: parse reference price %q: %w", val, err)
	}
	return price, nil
}

// SetPrice stores a reference price with the configured TTL.
func (pc *PriceCache) SetPrice(ctx context.Context, appID int, itemName string, price float64) error {
	val := strconv.FormatFloat(price, 'f', -1, 64)
	if err := pc.rdb.Set(ctx, refPriceKey(appID, itemName), val, pc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set reference price: %w", err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.ReferencePriceCache = (*PriceCache)(nil)
