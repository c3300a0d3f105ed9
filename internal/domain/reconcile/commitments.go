package reconcile

import (
	"stockview/internal/core/id"
	"stockview/internal/domain/documents/delivery_note"
	"stockview/internal/domain/documents/sales_document"
)

// MatchCommitments returns the quotes in a committing state whose goods
// have not left the warehouse yet.
func MatchCommitments(
	docs []sales_document.SalesDocument,
	notes []delivery_note.DeliveryNote,
	committing []sales_document.Status,
	strategy MatchStrategy,
) IDSet {
	states := newStateSet(committing)

	delivered := make(IDSet)
	for _, n := range notes {
		if n.Status != delivery_note.StatusConfirmed || n.Direction != delivery_note.DirectionOutbound {
			continue
		}
		switch strategy {
		case NoteLevelMatch:
			if n.SalesDocumentID != nil {
				delivered.add(*n.SalesDocumentID)
			}
		default:
			delivered.add(n.ProjectID)
		}
	}

	unfulfilled := make(IDSet)
	for _, d := range docs {
		if d.Type != sales_document.TypeQuote || !states.has(d.Status) {
			continue
		}
		if delivered.Has(commitmentKey(d, strategy)) {
			continue
		}
		unfulfilled.add(d.ID)
	}

	return unfulfilled
}

func commitmentKey(d sales_document.SalesDocument, strategy MatchStrategy) id.ID {
	if strategy == NoteLevelMatch {
		return d.ID
	}
	return d.ProjectID
}
