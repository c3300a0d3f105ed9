// Package sales_document provides quotes, pro-forma invoices and invoices.
package sales_document

import (
	"context"
	"strings"

	"stockview/internal/core/apperror"
	"stockview/internal/core/entity"
	"stockview/internal/core/id"
	"stockview/internal/core/types"
)

// DocType is the kind of sales document.
type DocType string

const (
	TypeQuote    DocType = "quote"
	TypeProforma DocType = "proforma"
	TypeInvoice  DocType = "invoice"
)

// IsValid reports whether t is a known document type.
func (t DocType) IsValid() bool {
	switch t {
	case TypeQuote, TypeProforma, TypeInvoice:
		return true
	}
	return false
}

// Status is the lifecycle state of a sales document.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusAccepted  Status = "accepted"
	StatusCollected Status = "collected"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusCollected, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCollected || s == StatusCancelled
}

// SalesDocument is a quote, pro-forma or invoice issued for a project.
type SalesDocument struct {
	entity.Document

	Type      DocType `db:"type" json:"type"`
	ProjectID id.ID   `db:"project_id" json:"projectId"`
	ClientID  *id.ID  `db:"client_id" json:"clientId,omitempty"`
	Status    Status  `db:"status" json:"status"`

	// Total is the sum of line totals
	Total types.Money `db:"total" json:"total"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is one priced row of a sales document.
type Line struct {
	LineID     id.ID `db:"line_id" json:"lineId"`
	DocumentID id.ID `db:"document_id" json:"documentId"`
	LineNo     int   `db:"line_no" json:"lineNo"`

	ItemID      id.ID          `db:"item_id" json:"itemId"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice   types.Money    `db:"unit_price" json:"unitPrice"`
	LineTotal   types.Money    `db:"line_total" json:"lineTotal"`
	Description string         `db:"description" json:"description,omitempty"`
}

// LineInput carries the editable fields of a line.
type LineInput struct {
	ItemID      id.ID
	Quantity    types.Quantity
	UnitPrice   types.Money
	Description string
}

// NewSalesDocument creates a draft document of the given type.
func NewSalesDocument(docType DocType, projectID id.ID) *SalesDocument {
	return &SalesDocument{
		Document:  entity.NewDocument(),
		Type:      docType,
		ProjectID: projectID,
		Status:    StatusDraft,
		Total:     types.Zero(),
		Lines:     make([]Line, 0),
	}
}

// Validate implements entity.Validatable.
func (d *SalesDocument) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}

	if !d.Type.IsValid() {
		return apperror.NewValidation("invalid document type").
			WithDetail("field", "type").
			WithDetail("value", string(d.Type))
	}
	if !d.Status.IsValid() {
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(d.Status))
	}
	if id.IsNil(d.ProjectID) {
		return apperror.NewValidation("project is required").
			WithDetail("field", "projectId")
	}

	for i, line := range d.Lines {
		if err := validateLine(line.ItemID, line.Quantity, line.UnitPrice); err != nil {
			return err.WithDetail("lineNo", i+1)
		}
	}

	return nil
}

func validateLine(itemID id.ID, qty types.Quantity, price types.Money) *apperror.AppError {
	if id.IsNil(itemID) {
		return apperror.NewValidation("item is required").
			WithDetail("field", "itemId")
	}
	if !qty.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if price.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}
	return nil
}

// CanModify checks whether header and lines may be edited.
func (d *SalesDocument) CanModify() error {
	if d.Status != StatusDraft {
		return apperror.NewInvalidState("sales document", string(d.Status), "modify")
	}
	return nil
}

// SetLines replaces all lines, recomputing line totals and the document total.
func (d *SalesDocument) SetLines(inputs []LineInput) error {
	if err := d.CanModify(); err != nil {
		return err
	}

	lines := make([]Line, 0, len(inputs))
	for i, in := range inputs {
		if err := validateLine(in.ItemID, in.Quantity, in.UnitPrice); err != nil {
			return err.WithDetail("lineNo", i+1)
		}
		lines = append(lines, Line{
			LineID:      id.New(),
			DocumentID:  d.ID,
			LineNo:      i + 1,
			ItemID:      in.ItemID,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			LineTotal:   types.MulMoney(in.Quantity, in.UnitPrice),
			Description: strings.TrimSpace(in.Description),
		})
	}

	d.Lines = lines
	d.recalculateTotal()
	return nil
}

func (d *SalesDocument) recalculateTotal() {
	total := types.Zero()
	for _, line := range d.Lines {
		total = total.Add(line.LineTotal)
	}
	d.Total = total
}

// Send moves a draft to sent.
func (d *SalesDocument) Send() error {
	if d.Status != StatusDraft {
		return apperror.NewInvalidState("sales document", string(d.Status), "send")
	}
	if err := d.requireLines(); err != nil {
		return err
	}
	d.Status = StatusSent
	return nil
}

// Accept records customer acceptance of a draft or sent document.
func (d *SalesDocument) Accept() error {
	if d.Status != StatusDraft && d.Status != StatusSent {
		return apperror.NewInvalidState("sales document", string(d.Status), "accept")
	}
	if err := d.requireLines(); err != nil {
		return err
	}
	d.Status = StatusAccepted
	return nil
}

// Collect records payment of an invoice.
func (d *SalesDocument) Collect() error {
	if d.Type != TypeInvoice {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "only invoices can be collected").
			WithDetail("type", string(d.Type))
	}
	if d.Status != StatusSent && d.Status != StatusAccepted {
		return apperror.NewInvalidState("sales document", string(d.Status), "collect")
	}
	d.Status = StatusCollected
	return nil
}

// Cancel voids a document that has not reached a terminal state.
func (d *SalesDocument) Cancel() error {
	if d.Status.IsTerminal() {
		return apperror.NewInvalidState("sales document", string(d.Status), "cancel")
	}
	d.Status = StatusCancelled
	return nil
}

func (d *SalesDocument) requireLines() error {
	if len(d.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}
	return nil
}

// ItemIDs returns the distinct items referenced by the lines, in line order.
func (d *SalesDocument) ItemIDs() []id.ID {
	seen := make(map[id.ID]struct{}, len(d.Lines))
	out := make([]id.ID, 0, len(d.Lines))
	for _, line := range d.Lines {
		if _, ok := seen[line.ItemID]; ok {
			continue
		}
		seen[line.ItemID] = struct{}{}
		out = append(out, line.ItemID)
	}
	return out
}

// Clone returns a deep copy.
func (d *SalesDocument) Clone() *SalesDocument {
	c := *d
	c.ClientID = id.ClonePtr(d.ClientID)
	c.Lines = append([]Line(nil), d.Lines...)
	return &c
}
