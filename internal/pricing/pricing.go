// Package pricing holds the pure numeric transforms of the analyzer: fee
// deduction, profit computation, and currency display.
package pricing

import (
	"fmt"
	"math"
)

// NetPayout returns the amount a seller receives after a marketplace's
// percentage fee and flat withdrawal fee are deducted from grossPrice.
// The result is floored at zero; a pathological fee schedule never yields a
// negative payout. feePct is fractional (0.12 for 12%) and is not validated.
func NetPayout(grossPrice, feePct, flatFee float64) float64 {
	net := grossPrice*(1-feePct) - flatFee
	return math.Max(0, net)
}

// Profit computes the profit of selling at netPayout against referencePrice,
// and the profit as a percentage of the reference price. Both values are
// rounded to 2 decimals at computation time so repeated runs on identical
// inputs produce identical figures. The percentage is zero when the
// reference price is zero.
func Profit(referencePrice, netPayout float64) (profit, profitPct float64) {
	profit = netPayout - referencePrice
	if referencePrice > 0 {
		profitPct = profit / referencePrice * 100
	}
	return Round2(profit), Round2(profitPct)
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatUSD renders an amount as a dollar string, e.g. "$15.45" or "-$2.30".
func FormatUSD(amount float64) string {
	if amount < 0 {
		return fmt.Sprintf("-$%.2f", -amount)
	}
	return fmt.Sprintf("$%.2f", amount)
}
