// Package store defines the frozen record set a reconciliation run reads.
package store

import (
	"context"

	"stockview/internal/domain/catalogs/category"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/catalogs/supplier_rate"
	"stockview/internal/domain/documents/delivery_note"
	"stockview/internal/domain/documents/sales_document"
)

// Snapshot is a point-in-time copy of every collection the engine joins.
// It shares no memory with the store it was taken from, so writers that
// commit after it was taken neither see nor affect it.
//
// Items keep catalog insertion order. Document headers carry no lines;
// lines are kept flat with a reference to their parent.
type Snapshot struct {
	Items              []item.InventoryItem
	Categories         []category.Category
	SupplierRates      []supplier_rate.SupplierRate
	DeliveryNotes      []delivery_note.DeliveryNote
	DeliveryNoteLines  []delivery_note.Line
	SalesDocuments     []sales_document.SalesDocument
	SalesDocumentLines []sales_document.Line
}

// Source produces snapshots.
type Source interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (*Snapshot, error)

// Snapshot implements Source.
func (f SourceFunc) Snapshot(ctx context.Context) (*Snapshot, error) {
	return f(ctx)
}

// Static returns a Source that always yields snap.
func Static(snap *Snapshot) Source {
	return SourceFunc(func(context.Context) (*Snapshot, error) {
		return snap, nil
	})
}
