package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"go.opentelemetry.io/otel/attribute"

	"stockview/internal/domain/catalogs/category"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/catalogs/supplier_rate"
	"stockview/internal/domain/documents/delivery_note"
	"stockview/internal/domain/documents/sales_document"
	"stockview/internal/domain/store"
)

// SnapshotSource loads every collection inside one REPEATABLE READ, READ ONLY
// transaction, so a snapshot never mixes rows from before and after a commit.
// Records come back in insertion order and lines in document order.
type SnapshotSource struct {
	txm *TxManager
}

var _ store.Source = (*SnapshotSource)(nil)

// NewSnapshotSource creates a snapshot source.
func NewSnapshotSource(txm *TxManager) *SnapshotSource {
	return &SnapshotSource{txm: txm}
}

// Snapshot implements store.Source.
func (s *SnapshotSource) Snapshot(ctx context.Context) (*store.Snapshot, error) {
	ctx, span := tracer.Start(ctx, "snapshot.load")
	defer span.End()

	snap := &store.Snapshot{}
	err := s.txm.RunInTransactionWithOptions(ctx, SnapshotTxOptions(), func(ctx context.Context) error {
		if err := selectAll(ctx, s.txm, &snap.Items, ExtractDBColumns[item.InventoryItem](), "items", InsertionOrder); err != nil {
			return err
		}
		if err := selectAll(ctx, s.txm, &snap.Categories, ExtractDBColumns[category.Category](), "categories", InsertionOrder); err != nil {
			return err
		}
		if err := selectAll(ctx, s.txm, &snap.SupplierRates, ExtractDBColumns[supplier_rate.SupplierRate](), "supplier_rates", InsertionOrder); err != nil {
			return err
		}
		if err := selectAll(ctx, s.txm, &snap.DeliveryNotes, ExtractDBColumns[delivery_note.DeliveryNote](), "delivery_notes", InsertionOrder); err != nil {
			return err
		}
		if err := selectAll(ctx, s.txm, &snap.DeliveryNoteLines, ExtractDBColumns[delivery_note.Line](), "delivery_note_lines", lineOrder("note_id")); err != nil {
			return err
		}
		if err := selectAll(ctx, s.txm, &snap.SalesDocuments, ExtractDBColumns[sales_document.SalesDocument](), "sales_documents", InsertionOrder); err != nil {
			return err
		}
		return selectAll(ctx, s.txm, &snap.SalesDocumentLines, ExtractDBColumns[sales_document.Line](), "sales_document_lines", lineOrder("document_id"))
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	span.SetAttributes(
		attribute.Int("snapshot.items", len(snap.Items)),
		attribute.Int("snapshot.delivery_notes", len(snap.DeliveryNotes)),
		attribute.Int("snapshot.sales_documents", len(snap.SalesDocuments)),
	)
	return snap, nil
}

// lineOrder keeps the lines of one parent together, in line number order.
func lineOrder(parent string) string {
	return parent + " ASC, line_no ASC"
}

func selectAllQuery(cols []string, table, orderBy string) (string, []any, error) {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(cols...).
		From(table).
		OrderBy(orderBy).
		ToSql()
}

func selectAll[T any](ctx context.Context, txm *TxManager, dst *[]T, cols []string, table, orderBy string) error {
	sql, args, err := selectAllQuery(cols, table, orderBy)
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, txm.GetQuerier(ctx), dst, sql, args...); err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return nil
}
