// Package dmarket is the REST client for the DMarket exchange API.
package dmarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mkarpenko/steamarb/internal/domain"
)

// gameIDs maps Steam app IDs to DMarket's internal game identifiers.
var gameIDs = map[int]string{
	730: "a8db", // CS2
	570: "9a92", // Dota 2
}

// GameID returns DMarket's internal identifier for a Steam app ID. The bool
// is false when DMarket does not cover the game.
func GameID(appID int) (string, bool) {
	id, ok := gameIDs[appID]
	return id, ok
}

// Client talks to the DMarket exchange API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a DMarket client.
//
// baseURL is the API root, e.g. "https://api.dmarket.com".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// marketItemsResponse is the payload of /exchange/v1/market/items.
type marketItemsResponse struct {
	Objects []struct {
		Title string            `json:"title"`
		Price map[string]string `json:"price"` // currency -> minor units
	} `json:"objects"`
}

// LowestPrice returns the first DMarket listing price for the named item in
// USD. DMarket reports prices as minor-unit strings (cents); the result is
// the decimal amount. It returns domain.ErrNotFound when the game is not
// covered or no listing matches.
func (c *Client) LowestPrice(ctx context.Context, appID int, title string) (float64, error) {
	gameID, ok := GameID(appID)
	if !ok {
		return 0, fmt.Errorf("dmarket: app %d: %w", appID, domain.ErrNotFound)
	}

	params := url.Values{}
	params.Set("gameId", gameID)
	params.Set("title", title)
	params.Set("limit", "1")

	reqURL := c.baseURL + "/exchange/v1/market/items?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("dmarket: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("dmarket: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("dmarket: read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return 0, fmt.Errorf("dmarket: %w", domain.ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("dmarket: HTTP %d", resp.StatusCode)
	}

	var mr marketItemsResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		return 0, fmt.Errorf("dmarket: decode items: %w", err)
	}
	if len(mr.Objects) == 0 {
		return 0, fmt.Errorf("dmarket: %q: %w", title, domain.ErrNotFound)
	}

	usd, ok := mr.Objects[0].Price["USD"]
	if !ok || usd == "" {
		return 0, fmt.Errorf("dmarket: %q: no USD price: %w", title, domain.ErrNotFound)
	}
	cents, err := strconv.ParseFloat(usd, 64)
	if err != nil {
		return 0, fmt.Errorf("dmarket: %q: parse price %q: %w", title, usd, err)
	}
	return cents / 100, nil
}

// ListingURL returns the public DMarket search page for an item.
func ListingURL(title string) string {
	return "https://dmarket.com/ingame-items/item-list/csgo-skins?title=" + url.QueryEscape(title)
}
