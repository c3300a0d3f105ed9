package reconcile

import (
	"stockview/internal/core/id"
	"stockview/internal/core/types"
)

// StockTotals holds rented and committed quantities per item.
// Every in-scope item has an entry in both maps.
type StockTotals struct {
	Rented    map[id.ID]types.Quantity
	Committed map[id.ID]types.Quantity
}

// ReconcileStock sums the lines of open outbound notes into rented and the
// lines of unfulfilled quotes into committed.
//
// Lines of non-stockable items are skipped here, while summing, so no
// partial total for such an item ever exists. A line naming an unknown item
// is skipped and reported; the other lines of its note still count. A total
// that would leave the quantity range saturates and is reported.
func ReconcileStock(ref *RefData, scope Scope, openNotes, unfulfilled IDSet) (StockTotals, []Issue) {
	totals := StockTotals{
		Rented:    make(map[id.ID]types.Quantity, len(scope.Items)),
		Committed: make(map[id.ID]types.Quantity, len(scope.Items)),
	}
	for _, it := range scope.Items {
		totals.Rented[it.ID] = 0
		totals.Committed[it.ID] = 0
	}

	var issues []Issue
	add := func(into map[id.ID]types.Quantity, total string, itemID, lineID id.ID, qty types.Quantity, source string) {
		it, ok := ref.Item(itemID)
		if !ok {
			issues = append(issues, danglingItem(itemID, lineID, source))
			return
		}
		if !it.Stockable || !scope.Has(itemID) {
			return
		}
		sum, ok := into[itemID].CheckedAdd(qty)
		into[itemID] = sum
		if !ok {
			issues = append(issues, quantityOverflow(itemID, it.Code, total))
		}
	}

	snap := ref.Snapshot()
	for _, n := range snap.DeliveryNotes {
		if !openNotes.Has(n.ID) {
			continue
		}
		for _, line := range ref.NoteLines(n.ID) {
			add(totals.Rented, "rented", line.ItemID, line.LineID, line.Quantity, "delivery note line")
		}
	}

	for _, d := range snap.SalesDocuments {
		if !unfulfilled.Has(d.ID) {
			continue
		}
		for _, line := range ref.DocumentLines(d.ID) {
			add(totals.Committed, "committed", line.ItemID, line.LineID, line.Quantity, "quote line")
		}
	}

	return totals, issues
}
