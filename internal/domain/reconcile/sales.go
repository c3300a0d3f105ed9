package reconcile

import (
	"stockview/internal/core/id"
	"stockview/internal/core/types"
	"stockview/internal/domain/documents/sales_document"
)

// SalesMetrics is the settled sales volume of one item.
type SalesMetrics struct {
	Units   types.Quantity `json:"units"`
	Revenue types.Money    `json:"revenue"`
}

// AggregateSales sums quantity and line total of settled documents per item.
// A document is settled when both its type and its status are in the given
// sets. Values are summed as stored. Every in-scope item has an entry.
func AggregateSales(
	ref *RefData,
	scope Scope,
	settledTypes []sales_document.DocType,
	settledStates []sales_document.Status,
) (map[id.ID]SalesMetrics, []Issue) {
	typeSet := newStateSet(settledTypes)
	stateSet := newStateSet(settledStates)

	out := make(map[id.ID]SalesMetrics, len(scope.Items))
	for _, it := range scope.Items {
		out[it.ID] = SalesMetrics{Revenue: types.Zero()}
	}

	var issues []Issue
	for _, d := range ref.Snapshot().SalesDocuments {
		if !typeSet.has(d.Type) || !stateSet.has(d.Status) {
			continue
		}
		for _, line := range ref.DocumentLines(d.ID) {
			if _, ok := ref.Item(line.ItemID); !ok {
				issues = append(issues, danglingItem(line.ItemID, line.LineID, "sales document line"))
				continue
			}
			if !scope.Has(line.ItemID) {
				continue
			}
			m := out[line.ItemID]
			m.Units += line.Quantity
			m.Revenue = m.Revenue.Add(line.LineTotal)
			out[line.ItemID] = m
		}
	}

	return out, issues
}
