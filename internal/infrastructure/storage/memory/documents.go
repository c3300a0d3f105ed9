package memory

import (
	"context"

	"stockview/internal/core/apperror"
	"stockview/internal/core/id"
	"stockview/internal/domain"
	"stockview/internal/domain/documents/delivery_note"
	"stockview/internal/domain/documents/sales_document"
)

// DeliveryNoteRepo implements delivery_note.Repository.
type DeliveryNoteRepo struct {
	store *Store
}

// NewDeliveryNoteRepo creates a delivery note repository.
func NewDeliveryNoteRepo(s *Store) *DeliveryNoteRepo {
	return &DeliveryNoteRepo{store: s}
}

func (r *DeliveryNoteRepo) Create(ctx context.Context, note *delivery_note.DeliveryNote) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, ok := d.notes.get(note.ID); ok {
			return apperror.NewDuplicate("delivery note", "id", note.ID.String())
		}
		header := note.Clone()
		header.Lines = nil
		d.notes.insert(note.ID, header)
		return nil
	})
}

func (r *DeliveryNoteRepo) GetByID(ctx context.Context, noteID id.ID) (*delivery_note.DeliveryNote, error) {
	var out *delivery_note.DeliveryNote
	err := r.store.read(ctx, func(d *dataset) error {
		v, ok := d.notes.get(noteID)
		if !ok {
			return apperror.NewNotFound("delivery note", noteID.String())
		}
		out = v.Clone()
		return nil
	})
	return out, err
}

func (r *DeliveryNoteRepo) Update(ctx context.Context, note *delivery_note.DeliveryNote) error {
	return r.store.write(ctx, func(d *dataset) error {
		stored, ok := d.notes.get(note.ID)
		if !ok {
			return apperror.NewNotFound("delivery note", note.ID.String())
		}
		if stored.Version != note.Version {
			return apperror.NewConcurrentModification("delivery note", note.ID.String())
		}
		note.Touch()
		header := note.Clone()
		header.Lines = nil
		d.notes.put(note.ID, header)
		return nil
	})
}

func (r *DeliveryNoteRepo) GetLines(ctx context.Context, noteID id.ID) ([]delivery_note.Line, error) {
	var out []delivery_note.Line
	err := r.store.read(ctx, func(d *dataset) error {
		out = cloneNoteLines(d.noteLines[noteID])
		return nil
	})
	return out, err
}

func (r *DeliveryNoteRepo) SaveLines(ctx context.Context, noteID id.ID, lines []delivery_note.Line) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, ok := d.notes.get(noteID); !ok {
			return apperror.NewNotFound("delivery note", noteID.String())
		}
		saved := cloneNoteLines(lines)
		for i := range saved {
			saved[i].NoteID = noteID
		}
		d.noteLines[noteID] = saved
		return nil
	})
}

func (r *DeliveryNoteRepo) List(ctx context.Context, filter delivery_note.ListFilter) (domain.ListResult[*delivery_note.DeliveryNote], error) {
	var all []*delivery_note.DeliveryNote
	allowed := idFilter(filter.IDs)
	err := r.store.read(ctx, func(d *dataset) error {
		d.notes.each(func(v *delivery_note.DeliveryNote) {
			if allowed(v.ID) && filter.Matches(v) && matchesSearch(filter.Search, v.Number, v.Comment) {
				all = append(all, v.Clone())
			}
		})
		return nil
	})
	if err != nil {
		return domain.ListResult[*delivery_note.DeliveryNote]{}, err
	}
	sortBy(all, filter.OrderBy, map[string]func(*delivery_note.DeliveryNote) string{
		"number": func(v *delivery_note.DeliveryNote) string { return v.Number },
		"date":   func(v *delivery_note.DeliveryNote) string { return v.Date.Format("2006-01-02") },
	})
	return domain.Paginate(all, filter.Limit, filter.Offset), nil
}

// SalesDocumentRepo implements sales_document.Repository.
type SalesDocumentRepo struct {
	store *Store
}

// NewSalesDocumentRepo creates a sales document repository.
func NewSalesDocumentRepo(s *Store) *SalesDocumentRepo {
	return &SalesDocumentRepo{store: s}
}

func (r *SalesDocumentRepo) Create(ctx context.Context, doc *sales_document.SalesDocument) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, ok := d.documents.get(doc.ID); ok {
			return apperror.NewDuplicate("sales document", "id", doc.ID.String())
		}
		header := doc.Clone()
		header.Lines = nil
		d.documents.insert(doc.ID, header)
		return nil
	})
}

func (r *SalesDocumentRepo) GetByID(ctx context.Context, docID id.ID) (*sales_document.SalesDocument, error) {
	var out *sales_document.SalesDocument
	err := r.store.read(ctx, func(d *dataset) error {
		v, ok := d.documents.get(docID)
		if !ok {
			return apperror.NewNotFound("sales document", docID.String())
		}
		out = v.Clone()
		return nil
	})
	return out, err
}

func (r *SalesDocumentRepo) Update(ctx context.Context, doc *sales_document.SalesDocument) error {
	return r.store.write(ctx, func(d *dataset) error {
		stored, ok := d.documents.get(doc.ID)
		if !ok {
			return apperror.NewNotFound("sales document", doc.ID.String())
		}
		if stored.Version != doc.Version {
			return apperror.NewConcurrentModification("sales document", doc.ID.String())
		}
		doc.Touch()
		header := doc.Clone()
		header.Lines = nil
		d.documents.put(doc.ID, header)
		return nil
	})
}

func (r *SalesDocumentRepo) GetLines(ctx context.Context, docID id.ID) ([]sales_document.Line, error) {
	var out []sales_document.Line
	err := r.store.read(ctx, func(d *dataset) error {
		out = append([]sales_document.Line(nil), d.docLines[docID]...)
		return nil
	})
	return out, err
}

func (r *SalesDocumentRepo) SaveLines(ctx context.Context, docID id.ID, lines []sales_document.Line) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, ok := d.documents.get(docID); !ok {
			return apperror.NewNotFound("sales document", docID.String())
		}
		saved := append([]sales_document.Line(nil), lines...)
		for i := range saved {
			saved[i].DocumentID = docID
		}
		d.docLines[docID] = saved
		return nil
	})
}

func (r *SalesDocumentRepo) List(ctx context.Context, filter sales_document.ListFilter) (domain.ListResult[*sales_document.SalesDocument], error) {
	var all []*sales_document.SalesDocument
	allowed := idFilter(filter.IDs)
	err := r.store.read(ctx, func(d *dataset) error {
		d.documents.each(func(v *sales_document.SalesDocument) {
			if allowed(v.ID) && filter.Matches(v) && matchesSearch(filter.Search, v.Number, v.Comment) {
				all = append(all, v.Clone())
			}
		})
		return nil
	})
	if err != nil {
		return domain.ListResult[*sales_document.SalesDocument]{}, err
	}
	sortBy(all, filter.OrderBy, map[string]func(*sales_document.SalesDocument) string{
		"number": func(v *sales_document.SalesDocument) string { return v.Number },
		"date":   func(v *sales_document.SalesDocument) string { return v.Date.Format("2006-01-02") },
	})
	return domain.Paginate(all, filter.Limit, filter.Offset), nil
}

var (
	_ delivery_note.Repository  = (*DeliveryNoteRepo)(nil)
	_ sales_document.Repository = (*SalesDocumentRepo)(nil)
)
