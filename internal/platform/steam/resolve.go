package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"

	"github.com/mkarpenko/steamarb/internal/domain"
)

var (
	// steamID64Pattern matches a canonical 17-digit SteamID64.
	steamID64Pattern = regexp.MustCompile(`^7656119[0-9]{10}$`)
	// profileURLPattern matches any steamcommunity profile-shaped URL.
	profileURLPattern = regexp.MustCompile(`steamcommunity\.com/(id|profiles)/([^/\s]+)`)
	// numericProfilePattern extracts the id from a /profiles/<id> URL.
	numericProfilePattern = regexp.MustCompile(`steamcommunity\.com/profiles/([0-9]+)`)
	// vanityPattern extracts the vanity name from a /id/<name> URL.
	vanityPattern = regexp.MustCompile(`steamcommunity\.com/id/([^/\s?]+)`)
	// embeddedIDPatterns find a SteamID64 inside a profile page.
	embeddedIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`g_steamID = "(\d+)"`),
		regexp.MustCompile(`steamcommunity\.com/profiles/(\d+)`),
	}
)

// ValidAccountInput reports whether input is a well-formed SteamID64 or a
// profile-URL-shaped string. A false result is an input validation failure,
// not a resolution failure.
func ValidAccountInput(input string) bool {
	return steamID64Pattern.MatchString(input) || profileURLPattern.MatchString(input)
}

// ResolveAccount maps a free-form account input to a canonical SteamID64.
// It accepts a raw SteamID64, a /profiles/<id> URL, or an /id/<vanity> URL.
// Vanity names resolve through the ResolveVanityURL Web API when an API key
// is configured, falling back to scraping the profile page otherwise.
// It returns domain.ErrResolveFailed when no SteamID64 can be derived.
func (c *Client) ResolveAccount(ctx context.Context, input string) (string, error) {
	if steamID64Pattern.MatchString(input) {
		return input, nil
	}

	if m := numericProfilePattern.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}

	m := vanityPattern.FindStringSubmatch(input)
	if m == nil {
		return "", fmt.Errorf("steam: %w: %q", domain.ErrResolveFailed, input)
	}
	vanityName := m[1]

	if c.apiKey != "" {
		id, err := c.resolveVanityURL(ctx, vanityName)
		if err == nil {
			return id, nil
		}
		// Fall through to the profile-page scrape.
	}

	id, err := c.resolveFromProfilePage(ctx, vanityName)
	if err != nil {
		return "", fmt.Errorf("steam: resolve vanity %q: %w", vanityName, err)
	}
	return id, nil
}

// vanityResponse is the envelope returned by ISteamUser/ResolveVanityURL.
type vanityResponse struct {
	Response struct {
		Success int    `json:"success"`
		SteamID string `json:"steamid"`
	} `json:"response"`
}

// resolveVanityURL resolves a vanity name through the authoritative Web API.
func (c *Client) resolveVanityURL(ctx context.Context, vanityName string) (string, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("vanityurl", vanityName)

	reqURL := c.webAPIURL + "/ISteamUser/ResolveVanityURL/v1/?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return "", err
	}

	var vr vanityResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if vr.Response.Success != 1 || vr.Response.SteamID == "" {
		return "", domain.ErrResolveFailed
	}
	return vr.Response.SteamID, nil
}

// resolveFromProfilePage scrapes the SteamID64 out of the public profile
// page. Used when no Web API key is available or the API lookup failed.
func (c *Client) resolveFromProfilePage(ctx context.Context, vanityName string) (string, error) {
	reqURL := c.communityURL + "/id/" + url.PathEscape(vanityName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return "", err
	}

	for _, pat := range embeddedIDPatterns {
		if m := pat.FindSubmatch(body); m != nil {
			return string(m[1]), nil
		}
	}
	return "", domain.ErrResolveFailed
}
