package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mkarpenko/steamarb/internal/domain"
	"github.com/mkarpenko/steamarb/internal/platform/skinport"
	"github.com/mkarpenko/steamarb/internal/pricing"
)

// Skinport adapts the Skinport marketplace to the Provider capability.
type Skinport struct {
	client *skinport.Client
	fees   domain.FeeSchedule
	cache  domain.QuoteCache
	logger *slog.Logger
}

// NewSkinport creates the Skinport adapter. cache may be a no-op
// implementation when caching is disabled.
func NewSkinport(client *skinport.Client, fees domain.FeeSchedule, cache domain.QuoteCache, logger *slog.Logger) *Skinport {
	return &Skinport{
		client: client,
		fees:   fees,
		cache:  cache,
		logger: logger.With(slog.String("provider", "skinport")),
	}
}

// ID implements Provider.
func (s *Skinport) ID() string { return "skinport" }

// DisplayName implements Provider.
func (s *Skinport) DisplayName() string { return "Skinport" }

// Fees implements Provider.
func (s *Skinport) Fees() domain.FeeSchedule { return s.fees }

// Quote implements Provider. Skinport covers every supported app, so the
// only absent cases are a missing listing or a zero price.
func (s *Skinport) Quote(ctx context.Context, itemName string, appID int) (domain.Quote, bool, error) {
	if q, err := s.cache.GetQuote(ctx, s.ID(), appID, itemName); err == nil {
		return q, true, nil
	}

	ask, err := s.client.LowestPrice(ctx, appID, itemName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Quote{}, false, nil
		}
		return domain.Quote{}, false, fmt.Errorf("skinport quote %q: %w", itemName, err)
	}

	q := domain.Quote{
		Provider:   s.DisplayName(),
		ItemName:   itemName,
		AskPrice:   ask,
		Currency:   "USD",
		FeePct:     s.fees.FeePct,
		FlatFee:    s.fees.FlatFee,
		NetPayout:  pricing.NetPayout(ask, s.fees.FeePct, s.fees.FlatFee),
		ListingURL: skinport.ListingURL(itemName),
	}

	if err := s.cache.SetQuote(ctx, s.ID(), appID, itemName, q); err != nil {
		s.logger.DebugContext(ctx, "quote cache write failed",
			slog.String("item", itemName),
			slog.String("error", err.Error()),
		)
	}
	return q, true, nil
}

// Compile-time interface check.
var _ Provider = (*Skinport)(nil)
