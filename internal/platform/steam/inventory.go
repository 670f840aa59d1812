package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mkarpenko/steamarb/internal/domain"
)

// inventoryResponse is the payload returned by the community inventory
// endpoint. Assets and descriptions are joined on (classid, instanceid).
type inventoryResponse struct {
	Assets []struct {
		AssetID    string `json:"assetid"`
		ClassID    string `json:"classid"`
		InstanceID string `json:"instanceid"`
		Amount     string `json:"amount"`
	} `json:"assets"`
	Descriptions []struct {
		ClassID        string `json:"classid"`
		InstanceID     string `json:"instanceid"`
		MarketHashName string `json:"market_hash_name"`
		MarketName     string `json:"market_name"`
		Name           string `json:"name"`
		Type           string `json:"type"`
		IconURL        string `json:"icon_url"`
		NameColor      string `json:"name_color"`
		Tradable       int    `json:"tradable"`
		Marketable     int    `json:"marketable"`
	} `json:"descriptions"`
	Success             int `json:"success"`
	TotalInventoryCount int `json:"total_inventory_count"`
}

// FetchInventory retrieves the marketable inventory items of steamID for one
// game. Failure classes are distinguishable by the caller:
//
//   - domain.ErrInventoryPrivate — the inventory is not public (HTTP 403)
//   - domain.ErrInventoryEmpty   — the account has no items for this game (HTTP 400)
//   - domain.ErrRateLimited      — Steam is throttling us (HTTP 429)
//
// Anything else is wrapped as a generic failure.
func (c *Client) FetchInventory(ctx context.Context, steamID string, appID, contextID int) ([]domain.Item, error) {
	params := url.Values{}
	params.Set("l", "english")
	params.Set("count", "5000")

	reqURL := fmt.Sprintf("%s/inventory/%s/%d/%d?%s",
		c.communityURL, url.PathEscape(steamID), appID, contextID, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("steam: create inventory request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Referer", c.communityURL+"/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("steam: fetch inventory: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("steam: read inventory response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusForbidden:
		return nil, fmt.Errorf("steam: inventory %s/%d: %w", steamID, appID, domain.ErrInventoryPrivate)
	case http.StatusBadRequest:
		// Steam answers 400 when the account holds no items for the game.
		return nil, fmt.Errorf("steam: inventory %s/%d: %w", steamID, appID, domain.ErrInventoryEmpty)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("steam: inventory %s/%d: %w", steamID, appID, domain.ErrRateLimited)
	default:
		return nil, fmt.Errorf("steam: inventory %s/%d: HTTP %d: %s",
			steamID, appID, resp.StatusCode, truncate(body, 200))
	}

	var inv inventoryResponse
	if err := json.Unmarshal(body, &inv); err != nil {
		return nil, fmt.Errorf("steam: decode inventory: %w", err)
	}
	if inv.Success != 1 {
		return nil, fmt.Errorf("steam: inventory %s/%d: %w", steamID, appID, domain.ErrInventoryEmpty)
	}
	if len(inv.Assets) == 0 || len(inv.Descriptions) == 0 {
		return nil, fmt.Errorf("steam: inventory %s/%d: %w", steamID, appID, domain.ErrInventoryEmpty)
	}

	// Join assets with their descriptions. Assets without a description are
	// dropped, as are non-marketable items.
	type descKey struct{ classID, instanceID string }
	descs := make(map[descKey]int, len(inv.Descriptions))
	for i := range inv.Descriptions {
		d := &inv.Descriptions[i]
		descs[descKey{d.ClassID, d.InstanceID}] = i
	}

	items := make([]domain.Item, 0, len(inv.Assets))
	for _, a := range inv.Assets {
		di, ok := descs[descKey{a.ClassID, a.InstanceID}]
		if !ok {
			continue
		}
		d := &inv.Descriptions[di]
		if d.Marketable != 1 {
			continue
		}
		items = append(items, domain.Item{
			AssetID:        a.AssetID,
			ClassID:        a.ClassID,
			InstanceID:     a.InstanceID,
			Amount:         a.Amount,
			Name:           d.Name,
			MarketHashName: d.MarketHashName,
			MarketName:     d.MarketName,
			NameColor:      d.NameColor,
			IconURL:        d.IconURL,
			Type:           d.Type,
			Tradable:       d.Tradable == 1,
			Marketable:     true,
		})
	}

	return items, nil
}

// truncate limits diagnostic body excerpts in error messages.
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
