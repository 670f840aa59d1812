package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mkarpenko/steamarb/internal/domain"
	"github.com/mkarpenko/steamarb/internal/platform/dmarket"
	"github.com/mkarpenko/steamarb/internal/pricing"
)

// DMarket adapts the DMarket marketplace to the Provider capability.
type DMarket struct {
	client *dmarket.Client
	fees   domain.FeeSchedule
	cache  domain.QuoteCache
	logger *slog.Logger
}

// NewDMarket creates the DMarket adapter. cache may be a no-op
// implementation when caching is disabled.
func NewDMarket(client *dmarket.Client, fees domain.FeeSchedule, cache domain.QuoteCache, logger *slog.Logger) *DMarket {
	return &DMarket{
		client: client,
		fees:   fees,
		cache:  cache,
		logger: logger.With(slog.String("provider", "dmarket")),
	}
}

// ID implements Provider.
func (d *DMarket) ID() string { return "dmarket" }

// DisplayName implements Provider.
func (d *DMarket) DisplayName() string { return "DMarket" }

// Fees implements Provider.
func (d *DMarket) Fees() domain.FeeSchedule { return d.fees }

// Quote implements Provider. An app ID DMarket does not map to one of its
// internal game identifiers is a routine absent result, not a failure.
func (d *DMarket) Quote(ctx context.Context, itemName string, appID int) (domain.Quote, bool, error) {
	if _, ok := dmarket.GameID(appID); !ok {
		return domain.Quote{}, false, nil
	}

	if q, err := d.cache.GetQuote(ctx, d.ID(), appID, itemName); err == nil {
		return q, true, nil
	}

	ask, err := d.client.LowestPrice(ctx, appID, itemName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Quote{}, false, nil
		}
		return domain.Quote{}, false, fmt.Errorf("dmarket quote %q: %w", itemName, err)
	}

	q := domain.Quote{
		Provider:   d.DisplayName(),
		ItemName:   itemName,
		AskPrice:   ask,
		Currency:   "USD",
		FeePct:     d.fees.FeePct,
		FlatFee:    d.fees.FlatFee,
		NetPayout:  pricing.NetPayout(ask, d.fees.FeePct, d.fees.FlatFee),
		ListingURL: dmarket.ListingURL(itemName),
	}

	if err := d.cache.SetQuote(ctx, d.ID(), appID, itemName, q); err != nil {
		d.logger.DebugContext(ctx, "quote cache write failed",
			slog.String("item", itemName),
			slog.String("error", err.Error()),
		)
	}
	return q, true, nil
}

// Compile-time interface check.
var _ Provider = (*DMarket)(nil)
