package reconcile

import (
	"stockview/internal/core/id"
	"stockview/internal/domain/documents/delivery_note"
)

// MatchReturns returns the confirmed outbound notes whose goods are still
// out. Draft and cancelled notes are ignored on both sides.
//
// Projects without notes yield nothing. Inbound notes of projects that have
// no outbound note have no effect.
func MatchReturns(notes []delivery_note.DeliveryNote, strategy MatchStrategy) IDSet {
	open := make(IDSet)

	closed := make(IDSet)
	for _, n := range notes {
		if n.Status != delivery_note.StatusConfirmed || n.Direction != delivery_note.DirectionInbound {
			continue
		}
		switch strategy {
		case NoteLevelMatch:
			if n.ReturnOfID != nil {
				closed.add(*n.ReturnOfID)
			}
		default:
			closed.add(n.ProjectID)
		}
	}

	for _, n := range notes {
		if n.Status != delivery_note.StatusConfirmed || n.Direction != delivery_note.DirectionOutbound {
			continue
		}
		if closed.Has(returnKey(n, strategy)) {
			continue
		}
		open.add(n.ID)
	}

	return open
}

func returnKey(n delivery_note.DeliveryNote, strategy MatchStrategy) id.ID {
	if strategy == NoteLevelMatch {
		return n.ID
	}
	return n.ProjectID
}
