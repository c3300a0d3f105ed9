package reconcile

import (
	"stockview/internal/core/id"
	"stockview/internal/core/types"
	"stockview/internal/domain/catalogs/category"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/catalogs/supplier_rate"
	"stockview/internal/domain/documents/delivery_note"
	"stockview/internal/domain/documents/sales_document"
	"stockview/internal/domain/store"
)

// fixture builds snapshots line by line.
type fixture struct {
	snap store.Snapshot
}

func newFixture() *fixture {
	return &fixture{}
}

func (f *fixture) product(code string, warehouse int64) id.ID {
	it := item.NewInventoryItem(code, code+" name", item.TypeProduct)
	it.WarehouseQty = types.NewQuantityFromInt(warehouse)
	f.snap.Items = append(f.snap.Items, *it)
	return it.ID
}

func (f *fixture) service(code string) id.ID {
	it := item.NewInventoryItem(code, code+" name", item.TypeService)
	f.snap.Items = append(f.snap.Items, *it)
	return it.ID
}

func (f *fixture) itemRef(itemID id.ID) *item.InventoryItem {
	for i := range f.snap.Items {
		if f.snap.Items[i].ID == itemID {
			return &f.snap.Items[i]
		}
	}
	return nil
}

func (f *fixture) category(name string) id.ID {
	c := category.NewCategory(name, name)
	f.snap.Categories = append(f.snap.Categories, *c)
	return c.ID
}

func (f *fixture) note(
	project id.ID,
	dir delivery_note.Direction,
	status delivery_note.Status,
	opts ...func(*delivery_note.DeliveryNote),
) id.ID {
	n := delivery_note.NewDeliveryNote(project, dir)
	n.Status = status
	for _, opt := range opts {
		opt(n)
	}
	f.snap.DeliveryNotes = append(f.snap.DeliveryNotes, *n)
	return n.ID
}

func (f *fixture) noteLine(noteID, itemID id.ID, qty int64) {
	f.snap.DeliveryNoteLines = append(f.snap.DeliveryNoteLines, delivery_note.Line{
		LineID:   id.New(),
		NoteID:   noteID,
		ItemID:   itemID,
		Quantity: types.NewQuantityFromInt(qty),
	})
}

func (f *fixture) doc(t sales_document.DocType, project id.ID, status sales_document.Status) id.ID {
	d := sales_document.NewSalesDocument(t, project)
	d.Status = status
	f.snap.SalesDocuments = append(f.snap.SalesDocuments, *d)
	return d.ID
}

func returning(outbound id.ID) func(*delivery_note.DeliveryNote) {
	return func(n *delivery_note.DeliveryNote) { n.ReturnOfID = &outbound }
}

func fulfilling(quote id.ID) func(*delivery_note.DeliveryNote) {
	return func(n *delivery_note.DeliveryNote) { n.SalesDocumentID = &quote }
}

func (f *fixture) docLine(docID, itemID id.ID, qty int64, total string) {
	f.snap.SalesDocumentLines = append(f.snap.SalesDocumentLines, sales_document.Line{
		LineID:     id.New(),
		DocumentID: docID,
		ItemID:     itemID,
		Quantity:   types.NewQuantityFromInt(qty),
		LineTotal:  types.MustMoney(total),
	})
}

func (f *fixture) rate(itemID id.ID, cost string, active bool) {
	r := supplier_rate.NewSupplierRate(itemID, "Supplier", types.MustMoney(cost))
	r.Active = active
	f.snap.SupplierRates = append(f.snap.SupplierRates, *r)
}

func (f *fixture) snapshot() *store.Snapshot {
	s := f.snap
	return &s
}

func qty(v int64) types.Quantity {
	return types.NewQuantityFromInt(v)
}

