// Package steam is the client for the Steam community and Web APIs: account
// resolution, inventory retrieval, and market reference prices.
package steam

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mkarpenko/steamarb/internal/domain"
)

// browserUserAgent mimics a desktop browser. The community inventory
// endpoint rejects obviously non-browser clients.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds the endpoints and credentials for the Steam client.
type Config struct {
	// CommunityURL is the steamcommunity.com root.
	CommunityURL string
	// WebAPIURL is the api.steampowered.com root.
	WebAPIURL string
	// APIKey enables vanity-URL resolution via ISteamUser/ResolveVanityURL.
	// When empty, resolution falls back to scraping the profile page.
	APIKey string
}

// Client talks to the Steam community site and Web API.
type Client struct {
	communityURL string
	webAPIURL    string
	apiKey       string
	httpClient   *http.Client
}

// NewClient creates a Steam client with a default 30-second HTTP timeout.
func NewClient(cfg Config) *Client {
	return &Client{
		communityURL: cfg.CommunityURL,
		webAPIURL:    cfg.WebAPIURL,
		apiKey:       cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// checkHTTPStatus maps non-2xx status codes to appropriate domain errors.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	bodyStr := string(body)
	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, bodyStr)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, bodyStr)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, bodyStr)
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, bodyStr)
	}
}
