package entity

import (
	"context"
	"time"

	"stockview/internal/core/apperror"
)

// Document is the base type for business transactions:
// delivery notes, quotes, pro-formas and invoices.
type Document struct {
	BaseEntity
	Timestamps

	// Number is the document number (auto-generated, unique within type+year)
	Number string `db:"number" json:"number"`

	// Date is the business (issue) date of the document
	Date time.Time `db:"date" json:"date"`

	// Comment is free text
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document with generated ID, dated today.
func NewDocument() Document {
	ts := NewTimestamps()
	return Document{
		BaseEntity: NewBaseEntity(),
		Timestamps: ts,
		Date:       ts.CreatedAt.Truncate(24 * time.Hour),
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}

// Touch updates the UpdatedAt timestamp and increments version.
func (d *Document) Touch() {
	d.TouchAt(time.Now().UTC())
	d.BaseEntity.Touch()
}
