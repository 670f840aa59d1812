package domain

import "time"

// Opportunity is one item's aggregation result: the reference (Steam) price,
// the winning quote, and the full quote set collected for audit. It is
// created once per item per aggregation pass and immutable afterwards.
type Opportunity struct {
	Item         *Item   `json:"item"`
	SteamPrice   float64 `json:"steamPrice"`
	BestProvider string  `json:"bestMarket"`
	BestAskPrice float64 `json:"marketPrice"`
	NetPayout    float64 `json:"netPayout"`
	Profit       float64 `json:"profit"`
	ProfitPct    float64 `json:"profitPercentage"`
	AllQuotes    []Quote `json:"allQuotes"`
}

// AnalysisResult is the aggregate of one analysis run.
//
// TotalProfit sums only strictly positive opportunity profits; losing
// opportunities remain in the list but do not reduce the total.
// ItemsAnalyzed counts items considered (after the item cap), not items
// that produced an opportunity.
type AnalysisResult struct {
	ID              string        `json:"id"`
	SteamID         string        `json:"steamId"`
	AppID           int           `json:"appId"`
	Currency        string        `json:"currency"`
	TotalProfit     float64       `json:"totalProfit"`
	ItemsAnalyzed   int           `json:"itemsAnalyzed"`
	ProfitableItems int           `json:"profitableItems"`
	Opportunities   []Opportunity `json:"opportunities"`
	CreatedAt       time.Time     `json:"createdAt"`
}
