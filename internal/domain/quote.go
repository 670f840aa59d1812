package domain

// FeeSchedule is the fee structure a marketplace applies to a sale. It is
// constant per provider for the lifetime of the process.
type FeeSchedule struct {
	// FeePct is the fractional percentage fee in [0, 1], e.g. 0.12 for 12%.
	FeePct float64
	// FlatFee is an optional flat withdrawal fee in currency units.
	FlatFee float64
}

// Quote is one marketplace's current ask price for a named item, together
// with the fee schedule applied and the resulting net payout. Quotes are
// produced fresh per aggregation pass and never reused across passes.
type Quote struct {
	Provider   string  `json:"marketplace"`
	ItemName   string  `json:"itemName"`
	AskPrice   float64 `json:"askPrice"`
	Currency   string  `json:"currency"`
	FeePct     float64 `json:"feePct"`
	FlatFee    float64 `json:"withdrawalFee,omitempty"`
	NetPayout  float64 `json:"netPayout"`
	ListingURL string  `json:"url,omitempty"`
}
