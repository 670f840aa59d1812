// Package provider defines the marketplace adapter capability and the
// registry of enabled adapters the analyzer fans out to.
package provider

import (
	"context"

	"github.com/mkarpenko/steamarb/internal/domain"
)

// Provider is one marketplace adapter. Each adapter maps the caller's Steam
// app ID to its own catalog, queries its upstream, normalizes the price to a
// USD decimal amount, and attaches its net payout using its fixed fee
// schedule.
//
// Quote returns ok=false when the provider has no quote for the item: an
// unmapped game, no matching listing, or a missing price. That is a routine
// non-error result. A non-nil error signals an upstream failure (network,
// bad status, malformed payload); callers are expected to treat it the same
// as "no quote" and keep going.
type Provider interface {
	// ID is the stable lookup identifier, e.g. "skinport".
	ID() string
	// DisplayName is the human-readable marketplace name, e.g. "Skinport".
	DisplayName() string
	// Fees returns the provider's fixed fee schedule.
	Fees() domain.FeeSchedule
	// Quote fetches the provider's current quote for one item.
	Quote(ctx context.Context, itemName string, appID int) (domain.Quote, bool, error)
}
