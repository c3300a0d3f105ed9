package sales_document

import (
	"context"

	"stockview/internal/core/id"
	"stockview/internal/domain"
)

// Repository defines operations for sales documents.
type Repository interface {
	Create(ctx context.Context, doc *SalesDocument) error
	GetByID(ctx context.Context, docID id.ID) (*SalesDocument, error)
	// Update writes the header with optimistic locking
	Update(ctx context.Context, doc *SalesDocument) error

	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*SalesDocument], error)
}

// ListFilter for filtering sales documents.
type ListFilter struct {
	domain.ListFilter

	Type      *DocType
	Status    *Status
	ProjectID *id.ID
}

// Matches reports whether doc passes the filter criteria (pagination aside).
func (f ListFilter) Matches(doc *SalesDocument) bool {
	if f.Type != nil && doc.Type != *f.Type {
		return false
	}
	if f.Status != nil && doc.Status != *f.Status {
		return false
	}
	if f.ProjectID != nil && doc.ProjectID != *f.ProjectID {
		return false
	}
	return true
}
