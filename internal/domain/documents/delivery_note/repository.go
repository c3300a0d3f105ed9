package delivery_note

import (
	"context"
	"time"

	"stockview/internal/core/id"
	"stockview/internal/domain"
)

// Repository defines operations for delivery notes.
type Repository interface {
	Create(ctx context.Context, note *DeliveryNote) error
	GetByID(ctx context.Context, noteID id.ID) (*DeliveryNote, error)
	// Update writes the header with optimistic locking
	Update(ctx context.Context, note *DeliveryNote) error

	GetLines(ctx context.Context, noteID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, noteID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*DeliveryNote], error)
}

// ListFilter for filtering delivery notes.
type ListFilter struct {
	domain.ListFilter

	ProjectID *id.ID
	Direction *Direction
	Status    *Status
	DateFrom  *time.Time
	DateTo    *time.Time
}

// Matches reports whether note passes the filter criteria (pagination aside).
func (f ListFilter) Matches(note *DeliveryNote) bool {
	if f.ProjectID != nil && note.ProjectID != *f.ProjectID {
		return false
	}
	if f.Direction != nil && note.Direction != *f.Direction {
		return false
	}
	if f.Status != nil && note.Status != *f.Status {
		return false
	}
	if f.DateFrom != nil && note.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && note.Date.After(*f.DateTo) {
		return false
	}
	return true
}
