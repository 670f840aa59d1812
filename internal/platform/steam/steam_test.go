package steam

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarpenko/steamarb/internal/domain"
)

func newTestClient(community, webAPI string) *Client {
	return NewClient(Config{
		CommunityURL: community,
		WebAPIURL:    webAPI,
		APIKey:       "test-key",
	})
}

func TestValidAccountInput(t *testing.T) {
	assert.True(t, ValidAccountInput("76561198012345678"))
	assert.True(t, ValidAccountInput("https://steamcommunity.com/profiles/76561198012345678"))
	assert.True(t, ValidAccountInput("https://steamcommunity.com/id/gaben"))
	assert.False(t, ValidAccountInput("not-a-steam-id"))
	assert.False(t, ValidAccountInput("1234567890"))
}

func TestResolveAccountDirectID(t *testing.T) {
	c := newTestClient("http://unused", "http://unused")
	id, err := c.ResolveAccount(context.Background(), "76561198012345678")
	require.NoError(t, err)
	assert.Equal(t, "76561198012345678", id)
}

func TestResolveAccountProfileURL(t *testing.T) {
	c := newTestClient("http://unused", "http://unused")
	id, err := c.ResolveAccount(context.Background(), "https://steamcommunity.com/profiles/76561198012345678/")
	require.NoError(t, err)
	assert.Equal(t, "76561198012345678", id)
}

func TestResolveAccountVanityViaAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ISteamUser/ResolveVanityURL/v1/", r.URL.Path)
		assert.Equal(t, "gaben", r.URL.Query().Get("vanityurl"))
		w.Write([]byte(`{"response":{"success":1,"steamid":"76561198012345678"}}`))
	}))
	defer srv.Close()

	c := newTestClient("http://unused", srv.URL)
	id, err := c.ResolveAccount(context.Background(), "https://steamcommunity.com/id/gaben")
	require.NoError(t, err)
	assert.Equal(t, "76561198012345678", id)
}

func TestResolveAccountVanityScrapeFallback(t *testing.T) {
	community := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/id/gaben", r.URL.Path)
		w.Write([]byte(`<html><script>g_steamID = "76561198012345678";</script></html>`))
	}))
	defer community.Close()

	c := NewClient(Config{CommunityURL: community.URL, WebAPIURL: "http://unused"})
	id, err := c.ResolveAccount(context.Background(), "https://steamcommunity.com/id/gaben")
	require.NoError(t, err)
	assert.Equal(t, "76561198012345678", id)
}

func TestResolveAccountFailure(t *testing.T) {
	c := newTestClient("http://unused", "http://unused")
	_, err := c.ResolveAccount(context.Background(), "just a random string")
	assert.ErrorIs(t, err, domain.ErrResolveFailed)
}

const inventoryPayload = `{
	"success": 1,
	"assets": [
		{"assetid":"a1","classid":"c1","instanceid":"i1","amount":"1"},
		{"assetid":"a2","classid":"c2","instanceid":"i2","amount":"1"},
		{"assetid":"a3","classid":"c3","instanceid":"i3","amount":"1"}
	],
	"descriptions": [
		{"classid":"c1","instanceid":"i1","market_hash_name":"AK-47 | Redline (Field-Tested)","market_name":"AK-47 | Redline","name":"AK-47 | Redline","type":"Rifle","icon_url":"icon1","tradable":1,"marketable":1},
		{"classid":"c2","instanceid":"i2","market_hash_name":"Souvenir Thing","market_name":"Souvenir Thing","name":"Souvenir Thing","type":"Rifle","icon_url":"icon2","tradable":0,"marketable":0}
	]
}`

func TestFetchInventory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/76561198012345678/730/2", r.URL.Path)
		assert.Equal(t, "english", r.URL.Query().Get("l"))
		w.Write([]byte(inventoryPayload))
	}))
	defer srv.Close()

	c := NewClient(Config{CommunityURL: srv.URL, WebAPIURL: "http://unused"})
	items, err := c.FetchInventory(context.Background(), "76561198012345678", 730, 2)
	require.NoError(t, err)

	// c2 is not marketable and c3 has no description; only c1 survives.
	require.Len(t, items, 1)
	assert.Equal(t, "AK-47 | Redline (Field-Tested)", items[0].MarketHashName)
	assert.True(t, items[0].Marketable)
	assert.True(t, items[0].Tradable)
}

func TestFetchInventoryFailureClasses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"private", http.StatusForbidden, domain.ErrInventoryPrivate},
		{"empty", http.StatusBadRequest, domain.ErrInventoryEmpty},
		{"rate limited", http.StatusTooManyRequests, domain.ErrRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(Config{CommunityURL: srv.URL, WebAPIURL: "http://unused"})
			_, err := c.FetchInventory(context.Background(), "76561198012345678", 730, 2)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReferencePrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/market/priceoverview/", r.URL.Path)
		assert.Equal(t, "730", r.URL.Query().Get("appid"))
		assert.Equal(t, "1", r.URL.Query().Get("currency"))
		w.Write([]byte(`{"success":true,"lowest_price":"$156.50"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{CommunityURL: srv.URL, WebAPIURL: "http://unused"})
	price, err := c.ReferencePrice(context.Background(), 730, "AK-47 | Redline (Field-Tested)")
	require.NoError(t, err)
	assert.InDelta(t, 156.50, price, 1e-9)
}

func TestReferencePriceAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	c := NewClient(Config{CommunityURL: srv.URL, WebAPIURL: "http://unused"})
	_, err := c.ReferencePrice(context.Background(), 730, "Nonexistent Item")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"$1.23", 1.23},
		{"1,23€", 1.23},
		{"$156.50", 156.50},
		{"12,34 zł", 12.34},
	}
	for _, tt := range tests {
		got, err := parsePrice(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}

	_, err := parsePrice("free")
	assert.Error(t, err)
}
