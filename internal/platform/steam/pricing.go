package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/mkarpenko/steamarb/internal/domain"
)

// priceOverviewResponse is the payload of market/priceoverview.
type priceOverviewResponse struct {
	Success     bool   `json:"success"`
	LowestPrice string `json:"lowest_price"`
	MedianPrice string `json:"median_price"`
	Volume      string `json:"volume"`
}

// nonPriceChars strips currency symbols and whitespace from a localized
// price string like "$1.23" or "1,23€".
var nonPriceChars = regexp.MustCompile(`[^0-9.,]`)

// ReferencePrice returns the current lowest Steam market listing for an item
// in USD. It returns domain.ErrNotFound when the item has no listing or the
// price cannot be parsed; callers treat that as "skip this item".
func (c *Client) ReferencePrice(ctx context.Context, appID int, marketHashName string) (float64, error) {
	params := url.Values{}
	params.Set("appid", strconv.Itoa(appID))
	params.Set("currency", "1") // USD
	params.Set("market_hash_name", marketHashName)

	reqURL := c.communityURL + "/market/priceoverview/?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("steam: create price request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("steam: fetch price %q: %w", marketHashName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("steam: read price response: %w", err)
	}
	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return 0, fmt.Errorf("steam: price %q: %w", marketHashName, err)
	}

	var po priceOverviewResponse
	if err := json.Unmarshal(body, &po); err != nil {
		return 0, fmt.Errorf("steam: decode price response: %w", err)
	}
	if !po.Success || po.LowestPrice == "" {
		return 0, fmt.Errorf("steam: price %q: %w", marketHashName, domain.ErrNotFound)
	}

	price, err := parsePrice(po.LowestPrice)
	if err != nil {
		return 0, fmt.Errorf("steam: price %q: %w", marketHashName, domain.ErrNotFound)
	}
	return price, nil
}

// parsePrice converts a localized price string ("$1.23", "1,23€") into a
// float. Only the first comma is treated as a decimal separator.
func parsePrice(s string) (float64, error) {
	cleaned := nonPriceChars.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty price string %q", s)
	}
	// European decimal comma.
	cleaned = strings.Replace(cleaned, ",", ".", 1)
	return strconv.ParseFloat(cleaned, 64)
}
