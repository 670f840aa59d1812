package analyzer_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarpenko/steamarb/internal/analyzer"
	"github.com/mkarpenko/steamarb/internal/cache/nocache"
	"github.com/mkarpenko/steamarb/internal/domain"
	"github.com/mkarpenko/steamarb/internal/pricing"
	"github.com/mkarpenko/steamarb/internal/provider"
)

// fakeProvider returns canned quotes keyed by item name.
type fakeProvider struct {
	id     string
	quotes map[string]domain.Quote
	err    error
	delay  time.Duration
}

func (f *fakeProvider) ID() string               { return f.id }
func (f *fakeProvider) DisplayName() string      { return f.id }
func (f *fakeProvider) Fees() domain.FeeSchedule { return domain.FeeSchedule{} }

func (f *fakeProvider) Quote(ctx context.Context, itemName string, appID int) (domain.Quote, bool, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return domain.Quote{}, false, ctx.Err()
		}
	}
	if f.err != nil {
		return domain.Quote{}, false, f.err
	}
	q, ok := f.quotes[itemName]
	if !ok {
		return domain.Quote{}, false, nil
	}
	return q, true, nil
}

// fakePricer returns canned reference prices keyed by item name.
type fakePricer struct {
	prices map[string]float64
}

func (f *fakePricer) ReferencePrice(ctx context.Context, appID int, marketHashName string) (float64, error) {
	p, ok := f.prices[marketHashName]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return p, nil
}

func quote(providerName string, ask, netPayout float64) domain.Quote {
	return domain.Quote{
		Provider:  providerName,
		AskPrice:  ask,
		Currency:  "USD",
		NetPayout: netPayout,
	}
}

func items(names ...string) []domain.Item {
	out := make([]domain.Item, len(names))
	for i, n := range names {
		out[i] = domain.Item{Name: n, MarketHashName: n, Marketable: true}
	}
	return out
}

func newAnalyzer(t *testing.T, pricer analyzer.ReferencePricer, cfg analyzer.Config, providers ...provider.Provider) *analyzer.Analyzer {
	t.Helper()
	return analyzer.New(provider.NewRegistry(providers...), pricer, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAnalyzePicksBestNetPayout(t *testing.T) {
	a := newAnalyzer(t,
		&fakePricer{prices: map[string]float64{"AK-47 | Redline": 190.00}},
		analyzer.Config{MaxItems: 50},
		&fakeProvider{id: "low", quotes: map[string]domain.Quote{
			"AK-47 | Redline": quote("low", 180.00, 160.00),
		}},
		&fakeProvider{id: "high", quotes: map[string]domain.Quote{
			"AK-47 | Redline": quote("high", 195.00, 175.00),
		}},
	)

	opps, analyzed, err := a.Analyze(context.Background(), items("AK-47 | Redline"), 730)
	require.NoError(t, err)
	assert.Equal(t, 1, analyzed)
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.Equal(t, "high", opp.BestProvider)
	assert.InDelta(t, 195.00, opp.BestAskPrice, 1e-9)
	assert.InDelta(t, 175.00, opp.NetPayout, 1e-9)
	assert.InDelta(t, -15.00, opp.Profit, 1e-9)
	require.Len(t, opp.AllQuotes, 2)
	assert.Equal(t, "low", opp.AllQuotes[0].Provider)
	assert.Equal(t, "high", opp.AllQuotes[1].Provider)
}

func TestAnalyzeTieKeepsFirstRegistered(t *testing.T) {
	a := newAnalyzer(t,
		&fakePricer{prices: map[string]float64{"Item": 10.00}},
		analyzer.Config{MaxItems: 50},
		&fakeProvider{id: "first", quotes: map[string]domain.Quote{
			"Item": quote("first", 12.00, 11.00),
		}},
		&fakeProvider{id: "second", quotes: map[string]domain.Quote{
			"Item": quote("second", 13.00, 11.00),
		}},
	)

	opps, _, err := a.Analyze(context.Background(), items("Item"), 730)
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "first", opps[0].BestProvider)
}

func TestAnalyzeSkipsItemWithoutReferencePrice(t *testing.T) {
	a := newAnalyzer(t,
		&fakePricer{prices: map[string]float64{"Priced": 5.00}},
		analyzer.Config{MaxItems: 50},
		&fakeProvider{id: "mkt", quotes: map[string]domain.Quote{
			"Priced":   quote("mkt", 6.00, 5.50),
			"Unpriced": quote("mkt", 6.00, 5.50),
		}},
	)

	opps, analyzed, err := a.Analyze(context.Background(), items("Priced", "Unpriced"), 730)
	require.NoError(t, err)
	assert.Equal(t, 2, analyzed)
	require.Len(t, opps, 1)
	assert.Equal(t, "Priced", opps[0].Item.MarketHashName)
}

func TestAnalyzeSkipsItemWithoutQuotes(t *testing.T) {
	a := newAnalyzer(t,
		&fakePricer{prices: map[string]float64{"Ghost": 5.00}},
		analyzer.Config{MaxItems: 50},
		&fakeProvider{id: "mkt", quotes: map[string]domain.Quote{}},
	)

	opps, analyzed, err := a.Analyze(context.Background(), items("Ghost"), 730)
	require.NoError(t, err)
	assert.Equal(t, 1, analyzed)
	assert.Empty(t, opps)
}

func TestAnalyzeSurvivesProviderFailure(t *testing.T) {
	a := newAnalyzer(t,
		&fakePricer{prices: map[string]float64{"Item": 10.00}},
		analyzer.Config{MaxItems: 50},
		&fakeProvider{id: "broken", err: errors.New("upstream down")},
		&fakeProvider{id: "working", quotes: map[string]domain.Quote{
			"Item": quote("working", 14.00, 12.50),
		}},
	)

	opps, _, err := a.Analyze(context.Background(), items("Item"), 730)
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "working", opps[0].BestProvider)
	assert.Len(t, opps[0].AllQuotes, 1)
}

func TestAnalyzeQuoteTimeout(t *testing.T) {
	a := newAnalyzer(t,
		&fakePricer{prices: map[string]float64{"Item": 10.00}},
		analyzer.Config{MaxItems: 50, QuoteTimeout: 20 * time.Millisecond},
		&fakeProvider{id: "slow", delay: time.Second, quotes: map[string]domain.Quote{
			"Item": quote("slow", 99.00, 99.00),
		}},
		&fakeProvider{id: "fast", quotes: map[string]domain.Quote{
			"Item": quote("fast", 14.00, 12.50),
		}},
	)

	opps, _, err := a.Analyze(context.Background(), items("Item"), 730)
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "fast", opps[0].BestProvider)
}

func TestAnalyzeCapsItemCount(t *testing.T) {
	a := newAnalyzer(t,
		&fakePricer{prices: map[string]float64{"A": 1, "B": 1, "C": 1}},
		analyzer.Config{MaxItems: 2},
		&fakeProvider{id: "mkt", quotes: map[string]domain.Quote{
			"A": quote("mkt", 2, 1.5),
			"B": quote("mkt", 2, 1.5),
			"C": quote("mkt", 2, 1.5),
		}},
	)

	opps, analyzed, err := a.Analyze(context.Background(), items("A", "B", "C"), 730)
	require.NoError(t, err)
	assert.Equal(t, 2, analyzed)
	assert.Len(t, opps, 2)
}

func TestAnalyzeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newAnalyzer(t,
		&fakePricer{prices: map[string]float64{"Item": 10.00}},
		analyzer.Config{MaxItems: 50},
		&fakeProvider{id: "mkt", quotes: map[string]domain.Quote{}},
	)

	_, _, err := a.Analyze(ctx, items("Item"), 730)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRankStableDescending(t *testing.T) {
	opps := []domain.Opportunity{
		{Item: &domain.Item{MarketHashName: "a"}, Profit: 1.00},
		{Item: &domain.Item{MarketHashName: "b"}, Profit: 9.00},
		{Item: &domain.Item{MarketHashName: "c"}, Profit: 1.00},
		{Item: &domain.Item{MarketHashName: "d"}, Profit: -2.00},
	}

	analyzer.Rank(opps)

	names := make([]string, len(opps))
	for i, o := range opps {
		names[i] = o.Item.MarketHashName
	}
	assert.Equal(t, []string{"b", "a", "c", "d"}, names)
}

func TestSummarizeCountsOnlyProfitable(t *testing.T) {
	opps := []domain.Opportunity{
		{Profit: 15.45},
		{Profit: -3.00},
		{Profit: 0},
		{Profit: 2.05},
	}

	total, profitable := analyzer.Summarize(opps)
	assert.InDelta(t, 17.50, total, 1e-9)
	assert.Equal(t, 2, profitable)
}

func TestSummarizeAllLosersTotalsZero(t *testing.T) {
	opps := []domain.Opportunity{{Profit: -1}, {Profit: -2}}

	total, profitable := analyzer.Summarize(opps)
	assert.Zero(t, total)
	assert.Zero(t, profitable)
}

// End to end over a realistic Counter-Strike example: Steam reference
// 156.50, Skinport ask 190.00 at 12% fee beating DMarket's 185.00 at 5%
// plus a withdrawal fee.
func TestAnalyzeEndToEnd(t *testing.T) {
	const name = "AK-47 | Redline (Field-Tested)"

	skinportNet := pricing.NetPayout(190.00, 0.12, 0) // 167.20
	dmarketNet := pricing.NetPayout(185.00, 0.05, 10) // 165.75

	a := newAnalyzer(t,
		&fakePricer{prices: map[string]float64{name: 156.50}},
		analyzer.Config{MaxItems: 50, QuoteTimeout: time.Second},
		&fakeProvider{id: "skinport", quotes: map[string]domain.Quote{
			name: quote("Skinport", 190.00, skinportNet),
		}},
		&fakeProvider{id: "dmarket", quotes: map[string]domain.Quote{
			name: quote("DMarket", 185.00, dmarketNet),
		}},
	)

	opps, analyzed, err := a.Analyze(context.Background(), items(name), 730)
	require.NoError(t, err)
	assert.Equal(t, 1, analyzed)
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.Equal(t, "Skinport", opp.BestProvider)
	assert.InDelta(t, 167.20, opp.NetPayout, 1e-9)
	assert.InDelta(t, 10.70, opp.Profit, 1e-9)
	assert.InDelta(t, 6.84, opp.ProfitPct, 1e-9)

	total, profitable := analyzer.Summarize(opps)
	assert.InDelta(t, 10.70, total, 1e-9)
	assert.Equal(t, 1, profitable)
}

func TestCachedPricerReadThrough(t *testing.T) {
	var calls int
	next := pricerFunc(func(ctx context.Context, appID int, name string) (float64, error) {
		calls++
		return 42.50, nil
	})

	cache := &memPriceCache{prices: map[string]float64{}}
	p := analyzer.NewCachedPricer(next, cache, slog.New(slog.NewTextHandler(io.Discard, nil)))

	got, err := p.ReferencePrice(context.Background(), 730, "Item")
	require.NoError(t, err)
	assert.InDelta(t, 42.50, got, 1e-9)

	got, err = p.ReferencePrice(context.Background(), 730, "Item")
	require.NoError(t, err)
	assert.InDelta(t, 42.50, got, 1e-9)
	assert.Equal(t, 1, calls)
}

func TestCachedPricerMissWithNoCache(t *testing.T) {
	next := pricerFunc(func(ctx context.Context, appID int, name string) (float64, error) {
		return 0, domain.ErrNotFound
	})

	p := analyzer.NewCachedPricer(next, nocache.PriceCache{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := p.ReferencePrice(context.Background(), 730, "Item")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type pricerFunc func(ctx context.Context, appID int, marketHashName string) (float64, error)

func (f pricerFunc) ReferencePrice(ctx context.Context, appID int, marketHashName string) (float64, error) {
	return f(ctx, appID, marketHashName)
}

type memPriceCache struct {
	prices map[string]float64
}

func (m *memPriceCache) GetPrice(ctx context.Context, appID int, itemName string) (float64, error) {
	p, ok := m.prices[itemName]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return p, nil
}

func (m *memPriceCache) SetPrice(ctx context.Context, appID int, itemName string, price float64) error {
	m.prices[itemName] = price
	return nil
}
