// Package delivery_note provides the DeliveryNote document.
// Outbound notes record goods leaving the warehouse for a project,
// inbound notes record them coming back.
package delivery_note

import (
	"context"
	"strings"

	"stockview/internal/core/apperror"
	"stockview/internal/core/entity"
	"stockview/internal/core/id"
	"stockview/internal/core/types"
)

// Direction of the goods movement.
type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	return d == DirectionOutbound || d == DirectionInbound
}

// Status is the lifecycle state of a note.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// DeliveryNote records a physical goods movement for a project.
type DeliveryNote struct {
	entity.Document

	ProjectID id.ID     `db:"project_id" json:"projectId"`
	ClientID  *id.ID    `db:"client_id" json:"clientId,omitempty"`
	Direction Direction `db:"direction" json:"direction"`
	Status    Status    `db:"status" json:"status"`

	// ReturnOfID links an inbound note to the outbound note it returns
	ReturnOfID *id.ID `db:"return_of_id" json:"returnOfId,omitempty"`

	// SalesDocumentID links an outbound note to the quote it fulfils
	SalesDocumentID *id.ID `db:"sales_document_id" json:"salesDocumentId,omitempty"`

	// Table part: moved goods
	Lines []Line `db:"-" json:"lines"`
}

// Line is one moved item of a delivery note.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	NoteID id.ID `db:"note_id" json:"noteId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID       id.ID          `db:"item_id" json:"itemId"`
	Quantity     types.Quantity `db:"quantity" json:"quantity"`
	Description  string         `db:"description" json:"description,omitempty"`
	SerialNumber *string        `db:"serial_number" json:"serialNumber,omitempty"`
}

// LineInput carries the editable fields of a line.
type LineInput struct {
	ItemID       id.ID
	Quantity     types.Quantity
	Description  string
	SerialNumber *string
}

func (in LineInput) validate() *apperror.AppError {
	if id.IsNil(in.ItemID) {
		return apperror.NewValidation("item is required").
			WithDetail("field", "itemId")
	}
	if !in.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	return nil
}

// NewDeliveryNote creates a draft note.
func NewDeliveryNote(projectID id.ID, direction Direction) *DeliveryNote {
	return &DeliveryNote{
		Document:  entity.NewDocument(),
		ProjectID: projectID,
		Direction: direction,
		Status:    StatusDraft,
		Lines:     make([]Line, 0),
	}
}

// Validate implements entity.Validatable.
func (n *DeliveryNote) Validate(ctx context.Context) error {
	if err := n.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(n.ProjectID) {
		return apperror.NewValidation("project is required").
			WithDetail("field", "projectId")
	}
	if !n.Direction.IsValid() {
		return apperror.NewValidation("invalid direction").
			WithDetail("field", "direction").
			WithDetail("value", string(n.Direction))
	}
	if !n.Status.IsValid() {
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(n.Status))
	}
	if n.ReturnOfID != nil && n.Direction != DirectionInbound {
		return apperror.NewValidation("only inbound notes can return an outbound note").
			WithDetail("field", "returnOfId")
	}
	if n.SalesDocumentID != nil && n.Direction != DirectionOutbound {
		return apperror.NewValidation("only outbound notes can fulfil a sales document").
			WithDetail("field", "salesDocumentId")
	}

	for i, line := range n.Lines {
		in := LineInput{ItemID: line.ItemID, Quantity: line.Quantity}
		if err := in.validate(); err != nil {
			return err.WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// CanModify checks whether header and lines may be edited.
// Confirmed and cancelled notes are immutable.
func (n *DeliveryNote) CanModify() error {
	if n.Status != StatusDraft {
		return apperror.NewInvalidState("delivery note", string(n.Status), "modify")
	}
	return nil
}

// Confirm moves a draft with at least one line to confirmed.
func (n *DeliveryNote) Confirm() error {
	if n.Status != StatusDraft {
		return apperror.NewInvalidState("delivery note", string(n.Status), "confirm")
	}
	if len(n.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}
	n.Status = StatusConfirmed
	return nil
}

// Cancel voids a draft or confirmed note.
func (n *DeliveryNote) Cancel() error {
	if n.Status == StatusCancelled {
		return apperror.NewInvalidState("delivery note", string(n.Status), "cancel")
	}
	n.Status = StatusCancelled
	return nil
}

// AddLine appends a line to a draft note.
func (n *DeliveryNote) AddLine(in LineInput) (*Line, error) {
	if err := n.CanModify(); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	n.Lines = append(n.Lines, Line{
		LineID:       id.New(),
		NoteID:       n.ID,
		LineNo:       len(n.Lines) + 1,
		ItemID:       in.ItemID,
		Quantity:     in.Quantity,
		Description:  strings.TrimSpace(in.Description),
		SerialNumber: cloneString(in.SerialNumber),
	})
	return &n.Lines[len(n.Lines)-1], nil
}

// UpdateLine rewrites a line of a draft note.
func (n *DeliveryNote) UpdateLine(lineID id.ID, in LineInput) (*Line, error) {
	if err := n.CanModify(); err != nil {
		return nil, err
	}
	idx := n.lineIndex(lineID)
	if idx < 0 {
		return nil, apperror.NewNotFound("delivery note line", lineID.String())
	}
	if err := in.validate(); err != nil {
		return nil, err.WithDetail("lineNo", n.Lines[idx].LineNo)
	}

	line := &n.Lines[idx]
	line.ItemID = in.ItemID
	line.Quantity = in.Quantity
	line.Description = strings.TrimSpace(in.Description)
	line.SerialNumber = cloneString(in.SerialNumber)
	return line, nil
}

// RemoveLine deletes a line of a draft note and renumbers the rest.
func (n *DeliveryNote) RemoveLine(lineID id.ID) error {
	if err := n.CanModify(); err != nil {
		return err
	}
	idx := n.lineIndex(lineID)
	if idx < 0 {
		return apperror.NewNotFound("delivery note line", lineID.String())
	}

	n.Lines = append(n.Lines[:idx], n.Lines[idx+1:]...)
	for i := range n.Lines {
		n.Lines[i].LineNo = i + 1
	}
	return nil
}

// SetLines replaces all lines of a draft note.
func (n *DeliveryNote) SetLines(inputs []LineInput) error {
	if err := n.CanModify(); err != nil {
		return err
	}
	n.Lines = make([]Line, 0, len(inputs))
	for i, in := range inputs {
		if _, err := n.AddLine(in); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return appErr.WithDetail("lineNo", i+1)
			}
			return err
		}
	}
	return nil
}

func (n *DeliveryNote) lineIndex(lineID id.ID) int {
	for i := range n.Lines {
		if n.Lines[i].LineID == lineID {
			return i
		}
	}
	return -1
}

// ItemIDs returns the distinct items referenced by the lines, in line order.
func (n *DeliveryNote) ItemIDs() []id.ID {
	seen := make(map[id.ID]struct{}, len(n.Lines))
	out := make([]id.ID, 0, len(n.Lines))
	for _, line := range n.Lines {
		if _, ok := seen[line.ItemID]; ok {
			continue
		}
		seen[line.ItemID] = struct{}{}
		out = append(out, line.ItemID)
	}
	return out
}

// Clone returns a deep copy.
func (n *DeliveryNote) Clone() *DeliveryNote {
	c := *n
	c.ClientID = id.ClonePtr(n.ClientID)
	c.ReturnOfID = id.ClonePtr(n.ReturnOfID)
	c.SalesDocumentID = id.ClonePtr(n.SalesDocumentID)
	c.Lines = make([]Line, len(n.Lines))
	for i, line := range n.Lines {
		c.Lines[i] = line.Clone()
	}
	return &c
}

// Clone returns a copy that shares no memory with l.
func (l Line) Clone() Line {
	l.SerialNumber = cloneString(l.SerialNumber)
	return l
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
