package provider_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarpenko/steamarb/internal/cache/nocache"
	"github.com/mkarpenko/steamarb/internal/domain"
	"github.com/mkarpenko/steamarb/internal/platform/dmarket"
	"github.com/mkarpenko/steamarb/internal/platform/skinport"
	"github.com/mkarpenko/steamarb/internal/provider"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSkinportQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"market_hash_name": "AK-47 | Redline (Field-Tested)", "app_id": 730, "currency": "USD", "min_price": 18500}
		]`))
	}))
	defer srv.Close()

	p := provider.NewSkinport(skinport.NewClient(srv.URL), domain.FeeSchedule{FeePct: 0.12}, nocache.QuoteCache{}, discardLogger())

	q, ok, err := p.Quote(context.Background(), "AK-47 | Redline (Field-Tested)", 730)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Skinport", q.Provider)
	assert.InDelta(t, 185.00, q.AskPrice, 1e-9)
	assert.InDelta(t, 162.80, q.NetPayout, 1e-9)
	assert.Equal(t, "USD", q.Currency)
	assert.Contains(t, q.ListingURL, "skinport.com")
}

func TestSkinportQuoteAbsentWhenUnlisted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	p := provider.NewSkinport(skinport.NewClient(srv.URL), domain.FeeSchedule{FeePct: 0.12}, nocache.QuoteCache{}, discardLogger())

	_, ok, err := p.Quote(context.Background(), "Nonexistent Item", 730)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSkinportQuoteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := provider.NewSkinport(skinport.NewClient(srv.URL), domain.FeeSchedule{FeePct: 0.12}, nocache.QuoteCache{}, discardLogger())

	_, ok, err := p.Quote(context.Background(), "AK-47 | Redline (Field-Tested)", 730)
	require.Error(t, err)
	assert.False(t, ok)
}

func TestDMarketQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a8db", r.URL.Query().Get("gameId"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"objects": [{"title": "AK-47 | Redline (Field-Tested)", "price": {"USD": "19000"}}]}`))
	}))
	defer srv.Close()

	p := provider.NewDMarket(dmarket.NewClient(srv.URL), domain.FeeSchedule{FeePct: 0.05, FlatFee: 0.50}, nocache.QuoteCache{}, discardLogger())

	q, ok, err := p.Quote(context.Background(), "AK-47 | Redline (Field-Tested)", 730)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "DMarket", q.Provider)
	assert.InDelta(t, 190.00, q.AskPrice, 1e-9)
	assert.InDelta(t, 180.00, q.NetPayout, 1e-9)
	assert.InDelta(t, 0.50, q.FlatFee, 1e-9)
}

func TestDMarketQuoteUnsupportedGame(t *testing.T) {
	p := provider.NewDMarket(dmarket.NewClient("http://unused.invalid"), domain.FeeSchedule{}, nocache.QuoteCache{}, discardLogger())

	_, ok, err := p.Quote(context.Background(), "Some Item", 440)
	require.NoError(t, err)
	assert.False(t, ok)
}
