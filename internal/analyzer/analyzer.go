// Package analyzer computes cross-marketplace arbitrage opportunities for a
// set of inventory items. For each item it looks up the Steam reference price,
// fans out to every registered marketplace provider concurrently, and keeps
// the quote with the highest net payout.
package analyzer

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mkarpenko/steamarb/internal/domain"
	"github.com/mkarpenko/steamarb/internal/pricing"
	"github.com/mkarpenko/steamarb/internal/provider"
)

// ReferencePricer resolves the Steam Community Market price an opportunity is
// measured against.
type ReferencePricer interface {
	ReferencePrice(ctx context.Context, appID int, marketHashName string) (float64, error)
}

// Config bounds a single analysis run.
type Config struct {
	// MaxItems caps how many inventory items are analyzed per run.
	MaxItems int
	// QuoteTimeout bounds each individual provider call. Zero disables the
	// per-call deadline.
	QuoteTimeout time.Duration
}

// Analyzer runs the per-item quote aggregation.
type Analyzer struct {
	registry *provider.Registry
	pricer   ReferencePricer
	cfg      Config
	logger   *slog.Logger
}

// New creates an Analyzer over the given provider registry.
func New(registry *provider.Registry, pricer ReferencePricer, cfg Config, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		registry: registry,
		pricer:   pricer,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "analyzer")),
	}
}

// Analyze evaluates up to MaxItems of the given items against every registered
// provider. Items are processed in input order; providers are queried
// concurrently per item. An item with no reference price or no quotes is
// skipped but still counts toward the analyzed total.
//
// The returned slice carries one Opportunity per quotable item, in input
// order. Use Rank to order it for presentation.
func (a *Analyzer) Analyze(ctx context.Context, items []domain.Item, appID int) ([]domain.Opportunity, int, error) {
	if a.cfg.MaxItems > 0 && len(items) > a.cfg.MaxItems {
		items = items[:a.cfg.MaxItems]
	}

	opportunities := make([]domain.Opportunity, 0, len(items))
	for i := range items {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		item := &items[i]
		opp, ok := a.analyzeItem(ctx, item, appID)
		if !ok {
			continue
		}
		opportunities = append(opportunities, opp)
	}
	return opportunities, len(items), nil
}

func (a *Analyzer) analyzeItem(ctx context.Context, item *domain.Item, appID int) (domain.Opportunity, bool) {
	refPrice, err := a.pricer.ReferencePrice(ctx, appID, item.MarketHashName)
	if err != nil {
		a.logger.DebugContext(ctx, "reference price unavailable",
			slog.String("item", item.MarketHashName),
			slog.String("error", err.Error()),
		)
		return domain.Opportunity{}, false
	}
	if refPrice <= 0 {
		return domain.Opportunity{}, false
	}

	quotes := a.collectQuotes(ctx, item.MarketHashName, appID)
	if len(quotes) == 0 {
		a.logger.DebugContext(ctx, "no marketplace quotes",
			slog.String("item", item.MarketHashName),
		)
		return domain.Opportunity{}, false
	}

	best := quotes[0]
	for _, q := range quotes[1:] {
		if q.NetPayout > best.NetPayout {
			best = q
		}
	}

	profit, profitPct := pricing.Profit(refPrice, best.NetPayout)
	return domain.Opportunity{
		Item:         item,
		SteamPrice:   refPrice,
		BestProvider: best.Provider,
		BestAskPrice: best.AskPrice,
		NetPayout:    best.NetPayout,
		Profit:       profit,
		ProfitPct:    profitPct,
		AllQuotes:    quotes,
	}, true
}

// collectQuotes queries every provider concurrently and returns the present
// quotes in provider registration order. Provider failures and absent
// listings both drop out of the result.
func (a *Analyzer) collectQuotes(ctx context.Context, itemName string, appID int) []domain.Quote {
	providers := a.registry.Enabled()
	results := make([]*domain.Quote, len(providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range providers {
		i, p := i, p
		g.Go(func() error {
			callCtx := gctx
			if a.cfg.QuoteTimeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(gctx, a.cfg.QuoteTimeout)
				defer cancel()
			}

			q, ok, err := p.Quote(callCtx, itemName, appID)
			if err != nil {
				a.logger.WarnContext(ctx, "provider quote failed",
					slog.String("provider", p.ID()),
					slog.String("item", itemName),
					slog.String("error", err.Error()),
				)
				return nil
			}
			if ok {
				results[i] = &q
			}
			return nil
		})
	}
	_ = g.Wait()

	quotes := make([]domain.Quote, 0, len(results))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes
}
