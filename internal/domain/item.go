// Package domain defines the core data model for the steam arbitrage
// analyzer: inventory items, marketplace quotes, computed opportunities,
// and the interfaces implemented by the cache, store, and blob layers.
package domain

// Item is one unit of a user's Steam inventory. It is immutable once
// retrieved; Opportunity records reference items, they do not copy them.
type Item struct {
	AssetID        string `json:"assetid"`
	ClassID        string `json:"classid"`
	InstanceID     string `json:"instanceid"`
	Amount         string `json:"amount"`
	Name           string `json:"name"`
	MarketHashName string `json:"market_hash_name"`
	MarketName     string `json:"market_name"`
	NameColor      string `json:"name_color,omitempty"`
	IconURL        string `json:"icon_url"`
	Type           string `json:"type,omitempty"`
	Tradable       bool   `json:"tradable"`
	Marketable     bool   `json:"marketable"`
}

// SupportedApps maps the Steam app IDs this analyzer understands to their
// display names.
var SupportedApps = map[int]string{
	730: "CS2",
	570: "Dota 2",
}

// DefaultContextID is the Steam inventory context used by CS2 and Dota 2.
const DefaultContextID = 2
