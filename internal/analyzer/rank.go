package analyzer

import (
	"sort"

	"github.com/mkarpenko/steamarb/internal/domain"
	"github.com/mkarpenko/steamarb/internal/pricing"
)

// Rank orders opportunities by profit, highest first. The sort is stable so
// ties keep their inventory order.
func Rank(opportunities []domain.Opportunity) {
	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].Profit > opportunities[j].Profit
	})
}

// Summarize totals a run. TotalProfit sums only positive profits; a run full
// of losing items totals zero.
func Summarize(opportunities []domain.Opportunity) (totalProfit float64, profitableItems int) {
	for i := range opportunities {
		if p := opportunities[i].Profit; p > 0 {
			totalProfit += p
			profitableItems++
		}
	}
	return pricing.Round2(totalProfit), profitableItems
}
