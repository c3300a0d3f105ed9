package reconcile

import (
	"github.com/shopspring/decimal"

	"stockview/internal/core/id"
	"stockview/internal/core/types"
)

// costScale is the number of decimal places an average cost is rounded to.
const costScale = 4

// CostStat is the mean of the active supplier rates of one item.
type CostStat struct {
	Average types.Money
	Rates   int
}

// AggregateCost averages active supplier rates per item. Zero-cost rates
// count. Items without active rates are absent from the result; the view
// builder falls back to the catalog cost for them.
func AggregateCost(ref *RefData, scope Scope) (map[id.ID]CostStat, []Issue) {
	sums := make(map[id.ID]types.Money)
	counts := make(map[id.ID]int)

	var issues []Issue
	for _, r := range ref.Snapshot().SupplierRates {
		if !r.Active {
			continue
		}
		if _, ok := ref.Item(r.ItemID); !ok {
			issues = append(issues, danglingItem(r.ItemID, r.ID, "supplier rate"))
			continue
		}
		if !scope.Has(r.ItemID) {
			continue
		}
		sum, ok := sums[r.ItemID]
		if !ok {
			sum = types.Zero()
		}
		sums[r.ItemID] = sum.Add(r.CostPrice)
		counts[r.ItemID]++
	}

	out := make(map[id.ID]CostStat, len(sums))
	for itemID, sum := range sums {
		n := counts[itemID]
		out[itemID] = CostStat{
			Average: sum.DivRound(decimal.NewFromInt(int64(n)), costScale),
			Rates:   n,
		}
	}
	return out, issues
}
