package reconcile

import (
	"stockview/internal/core/id"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/documents/delivery_note"
	"stockview/internal/domain/documents/sales_document"
	"stockview/internal/domain/store"
)

// RefData is the read-only index of a snapshot shared by all components.
type RefData struct {
	snap *store.Snapshot

	items         map[id.ID]*item.InventoryItem
	categoryNames map[id.ID]string
	noteLines     map[id.ID][]delivery_note.Line
	documentLines map[id.ID][]sales_document.Line

	// issues found while indexing (orphan lines)
	issues []Issue
}

// NewRefData indexes snap. Lines whose parent record is missing are
// dropped and reported.
func NewRefData(snap *store.Snapshot) *RefData {
	r := &RefData{
		snap:          snap,
		items:         make(map[id.ID]*item.InventoryItem, len(snap.Items)),
		categoryNames: make(map[id.ID]string, len(snap.Categories)),
		noteLines:     make(map[id.ID][]delivery_note.Line, len(snap.DeliveryNotes)),
		documentLines: make(map[id.ID][]sales_document.Line, len(snap.SalesDocuments)),
	}

	for i := range snap.Items {
		r.items[snap.Items[i].ID] = &snap.Items[i]
	}
	for _, c := range snap.Categories {
		r.categoryNames[c.ID] = c.Name
	}

	notes := make(IDSet, len(snap.DeliveryNotes))
	for _, n := range snap.DeliveryNotes {
		notes.add(n.ID)
	}
	for _, line := range snap.DeliveryNoteLines {
		if !notes.Has(line.NoteID) {
			r.issues = append(r.issues, orphanLine(line.LineID, line.NoteID, "delivery note"))
			continue
		}
		r.noteLines[line.NoteID] = append(r.noteLines[line.NoteID], line)
	}

	docs := make(IDSet, len(snap.SalesDocuments))
	for _, d := range snap.SalesDocuments {
		docs.add(d.ID)
	}
	for _, line := range snap.SalesDocumentLines {
		if !docs.Has(line.DocumentID) {
			r.issues = append(r.issues, orphanLine(line.LineID, line.DocumentID, "sales document"))
			continue
		}
		r.documentLines[line.DocumentID] = append(r.documentLines[line.DocumentID], line)
	}

	return r
}

// Item returns the catalog item with the given id.
func (r *RefData) Item(itemID id.ID) (*item.InventoryItem, bool) {
	it, ok := r.items[itemID]
	return it, ok
}

// CategoryName returns the name of a category.
func (r *RefData) CategoryName(categoryID id.ID) (string, bool) {
	name, ok := r.categoryNames[categoryID]
	return name, ok
}

// NoteLines returns the lines of a delivery note in snapshot order.
func (r *RefData) NoteLines(noteID id.ID) []delivery_note.Line {
	return r.noteLines[noteID]
}

// DocumentLines returns the lines of a sales document in snapshot order.
func (r *RefData) DocumentLines(docID id.ID) []sales_document.Line {
	return r.documentLines[docID]
}

// Snapshot returns the indexed snapshot.
func (r *RefData) Snapshot() *store.Snapshot {
	return r.snap
}

// Scope is the ordered set of catalog items a run produces views for.
type Scope struct {
	Items []*item.InventoryItem
	ids   IDSet
}

// Has reports whether the item is in scope.
func (s Scope) Has(itemID id.ID) bool {
	return s.ids.Has(itemID)
}

// Scope selects catalog items in insertion order. Filtering happens here,
// before any aggregate is computed.
func (r *RefData) Scope(opts RunOptions) Scope {
	var only IDSet
	if len(opts.ItemIDs) > 0 {
		only = make(IDSet, len(opts.ItemIDs))
		for _, v := range opts.ItemIDs {
			only.add(v)
		}
	}

	s := Scope{ids: make(IDSet, len(r.snap.Items))}
	for i := range r.snap.Items {
		it := &r.snap.Items[i]
		if opts.Type != nil && it.Type != *opts.Type {
			continue
		}
		if opts.ActiveOnly && !it.Active {
			continue
		}
		if only != nil && !only.Has(it.ID) {
			continue
		}
		s.Items = append(s.Items, it)
		s.ids.add(it.ID)
	}
	return s
}
