// Package skinport is the REST client for the Skinport marketplace API.
package skinport

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

// Client talks to the Skinport public items API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Skinport client.
//
// baseURL is the API root, e.g. "https://api.skinport.com/v1".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// apiItem is one entry of the /items listing.
type apiItem struct {
	MarketHashName string  `json:"market_hash_name"`
	AppID          int     `json:"app_id"`
	Currency       string  `json:"currency"`
	MinPrice       float64 `json:"min_price"`
}

// LowestPrice returns the lowest current Skinport listing for the named item
// in USD. Skinport reports prices in minor units (cents); the result is the
// decimal amount. It returns domain.ErrNotFound when no listing matches.
func (c *Client) LowestPrice(ctx context.Context, appID int, marketHashName string) (float64, error) {
	params := url.Values{}
	params.Set("app_id", strconv.Itoa(appID))
	params.Set("currency", "USD")

	reqURL := c.baseURL + "/items?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("skinport: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("skinport: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("skinport: read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return 0, fmt.Errorf("skinport: %w", domain.ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("skinport: HTTP %d", resp.StatusCode)
	}

	var items []apiItem
	if err := json.Unmarshal(body, &items); err != nil {
		return 0, fmt.Errorf("skinport: decode items: %w", err)
	}

	for i := range items {
		it := &items[i]
		if it.MarketHashName != marketHashName {
			continue
		}
		if it.AppID != 0 && it.AppID != appID {
			continue
		}
		if it.MinPrice <= 0 {
			break
		}
		return it.MinPrice / 100, nil
	}
	return 0, fmt.Errorf("skinport: %q: %w", marketHashName, domain.ErrNotFound)
}

// ListingURL returns the public Skinport page for an item.
func ListingURL(marketHashName string) string {
	return "https://skinport.com/item/" + url.PathEscape(marketHashName)
}
