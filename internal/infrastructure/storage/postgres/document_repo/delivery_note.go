// Package document_repo provides PostgreSQL implementations for document repositories.
// Headers and lines live in separate tables; lines are replaced as a whole.
package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"stockview/internal/core/id"
	"stockview/internal/domain"
	"stockview/internal/domain/documents/delivery_note"
	"stockview/internal/infrastructure/storage/postgres"
)

const (
	TableDeliveryNotes     = "delivery_notes"
	TableDeliveryNoteLines = "delivery_note_lines"
)

var documentOrder = map[string]string{
	"":       postgres.InsertionOrder,
	"number": "number",
	"date":   "date",
}

// DeliveryNoteRepo implements delivery_note.Repository.
type DeliveryNoteRepo struct {
	*postgres.Table[delivery_note.DeliveryNote]
	lines *postgres.Table[delivery_note.Line]
}

var _ delivery_note.Repository = (*DeliveryNoteRepo)(nil)

// NewDeliveryNoteRepo creates a delivery note repository.
func NewDeliveryNoteRepo(txm *postgres.TxManager) *DeliveryNoteRepo {
	return &DeliveryNoteRepo{
		Table: postgres.NewTable[delivery_note.DeliveryNote](txm, TableDeliveryNotes, "delivery note", documentOrder),
		lines: postgres.NewTable[delivery_note.Line](txm, TableDeliveryNoteLines, "delivery note line", nil),
	}
}

func (r *DeliveryNoteRepo) Create(ctx context.Context, note *delivery_note.DeliveryNote) error {
	return r.Insert(ctx, note)
}

func (r *DeliveryNoteRepo) GetByID(ctx context.Context, noteID id.ID) (*delivery_note.DeliveryNote, error) {
	return r.Get(ctx, squirrel.Eq{"id": noteID}, noteID.String())
}

func (r *DeliveryNoteRepo) Update(ctx context.Context, note *delivery_note.DeliveryNote) error {
	return postgres.UpdateVersioned(ctx, r.Table, note)
}

func (r *DeliveryNoteRepo) GetLines(ctx context.Context, noteID id.ID) ([]delivery_note.Line, error) {
	rows, err := r.lines.All(ctx, r.lines.Select().
		Where(squirrel.Eq{"note_id": noteID}).
		OrderBy("line_no ASC"))
	if err != nil {
		return nil, err
	}
	out := make([]delivery_note.Line, len(rows))
	for i, row := range rows {
		out[i] = *row
	}
	return out, nil
}

func (r *DeliveryNoteRepo) SaveLines(ctx context.Context, noteID id.ID, lines []delivery_note.Line) error {
	saved := make([]delivery_note.Line, len(lines))
	for i, line := range lines {
		saved[i] = line.Clone()
		saved[i].NoteID = noteID
	}
	return r.lines.ReplaceChildren(ctx, "note_id", noteID, saved)
}

func (r *DeliveryNoteRepo) List(ctx context.Context, filter delivery_note.ListFilter) (domain.ListResult[*delivery_note.DeliveryNote], error) {
	q := searchNumber(r.Select(), filter.Search)
	if filter.ProjectID != nil {
		q = q.Where(squirrel.Eq{"project_id": *filter.ProjectID})
	}
	if filter.Direction != nil {
		q = q.Where(squirrel.Eq{"direction": *filter.Direction})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	return r.Page(ctx, q, filter.ListFilter)
}

func searchNumber(q squirrel.SelectBuilder, search string) squirrel.SelectBuilder {
	if search == "" {
		return q
	}
	pattern := "%" + search + "%"
	return q.Where(squirrel.Or{
		squirrel.ILike{"number": pattern},
		squirrel.ILike{"comment": pattern},
	})
}
