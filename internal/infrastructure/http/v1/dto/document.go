package dto

import (
	"strings"
	"time"

	"stockview/internal/core/id"
	"stockview/internal/core/types"
	"stockview/internal/domain/documents/delivery_note"
	"stockview/internal/domain/documents/sales_document"
)

// --- Delivery notes ---

// DeliveryNoteLineRequest is one line of a delivery note request.
type DeliveryNoteLineRequest struct {
	ItemID       id.ID          `json:"itemId" binding:"required"`
	Quantity     types.Quantity `json:"quantity"`
	Description  string         `json:"description"`
	SerialNumber *string        `json:"serialNumber"`
}

// ToInput converts the line into a domain line input.
func (r DeliveryNoteLineRequest) ToInput() delivery_note.LineInput {
	return delivery_note.LineInput{
		ItemID:       r.ItemID,
		Quantity:     r.Quantity,
		Description:  r.Description,
		SerialNumber: r.SerialNumber,
	}
}

func noteInputs(lines []DeliveryNoteLineRequest) []delivery_note.LineInput {
	out := make([]delivery_note.LineInput, len(lines))
	for i, l := range lines {
		out[i] = l.ToInput()
	}
	return out
}

// CreateDeliveryNoteRequest is the request body for creating a delivery note.
type CreateDeliveryNoteRequest struct {
	Number          string                    `json:"number"`
	Date            *time.Time                `json:"date"`
	Comment         string                    `json:"comment"`
	ProjectID       id.ID                     `json:"projectId" binding:"required"`
	ClientID        *id.ID                    `json:"clientId"`
	Direction       delivery_note.Direction   `json:"direction" binding:"required,oneof=outbound inbound"`
	ReturnOfID      *id.ID                    `json:"returnOfId"`
	SalesDocumentID *id.ID                    `json:"salesDocumentId"`
	Lines           []DeliveryNoteLineRequest `json:"lines" binding:"dive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateDeliveryNoteRequest) ToEntity() (*delivery_note.DeliveryNote, error) {
	note := delivery_note.NewDeliveryNote(r.ProjectID, r.Direction)
	note.Number = strings.TrimSpace(r.Number)
	if r.Date != nil {
		note.Date = r.Date.UTC()
	}
	note.Comment = r.Comment
	note.ClientID = id.ClonePtr(r.ClientID)
	note.ReturnOfID = id.ClonePtr(r.ReturnOfID)
	note.SalesDocumentID = id.ClonePtr(r.SalesDocumentID)
	if err := note.SetLines(noteInputs(r.Lines)); err != nil {
		return nil, err
	}
	return note, nil
}

// UpdateDeliveryNoteRequest is the request body for updating a draft delivery note.
type UpdateDeliveryNoteRequest struct {
	Date            time.Time                 `json:"date" binding:"required"`
	Comment         string                    `json:"comment"`
	ProjectID       id.ID                     `json:"projectId" binding:"required"`
	ClientID        *id.ID                    `json:"clientId"`
	ReturnOfID      *id.ID                    `json:"returnOfId"`
	SalesDocumentID *id.ID                    `json:"salesDocumentId"`
	Lines           []DeliveryNoteLineRequest `json:"lines" binding:"dive"`
	Version         int                       `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity. Fails on a non-draft note.
func (r *UpdateDeliveryNoteRequest) ApplyTo(note *delivery_note.DeliveryNote) error {
	if err := note.SetLines(noteInputs(r.Lines)); err != nil {
		return err
	}
	note.Date = r.Date.UTC()
	note.Comment = r.Comment
	note.ProjectID = r.ProjectID
	note.ClientID = id.ClonePtr(r.ClientID)
	note.ReturnOfID = id.ClonePtr(r.ReturnOfID)
	note.SalesDocumentID = id.ClonePtr(r.SalesDocumentID)
	note.Version = r.Version
	return nil
}

// DeliveryNoteQuery contains delivery note list parameters.
type DeliveryNoteQuery struct {
	ListQuery
	ProjectID string     `form:"projectId" binding:"omitempty,uuid"`
	Direction string     `form:"direction" binding:"omitempty,oneof=outbound inbound"`
	Status    string     `form:"status" binding:"omitempty,oneof=draft confirmed cancelled"`
	DateFrom  *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo    *time.Time `form:"dateTo" time_format:"2006-01-02"`
}

// ToFilter converts the query into a delivery note filter.
func (q DeliveryNoteQuery) ToFilter() delivery_note.ListFilter {
	f := delivery_note.ListFilter{ListFilter: q.ListQuery.ToFilter(), DateFrom: q.DateFrom, DateTo: q.DateTo}
	if q.ProjectID != "" {
		p := id.MustParse(q.ProjectID)
		f.ProjectID = &p
	}
	if q.Direction != "" {
		d := delivery_note.Direction(q.Direction)
		f.Direction = &d
	}
	if q.Status != "" {
		s := delivery_note.Status(q.Status)
		f.Status = &s
	}
	return f
}

// DeliveryNoteLineResponse is one line of a delivery note response.
type DeliveryNoteLineResponse struct {
	LineID       string         `json:"lineId"`
	LineNo       int            `json:"lineNo"`
	ItemID       string         `json:"itemId"`
	Quantity     types.Quantity `json:"quantity"`
	Description  string         `json:"description,omitempty"`
	SerialNumber *string        `json:"serialNumber,omitempty"`
}

// FromDeliveryNoteLine creates response DTO from a domain line.
func FromDeliveryNoteLine(l delivery_note.Line) DeliveryNoteLineResponse {
	return DeliveryNoteLineResponse{
		LineID:       l.LineID.String(),
		LineNo:       l.LineNo,
		ItemID:       l.ItemID.String(),
		Quantity:     l.Quantity,
		Description:  l.Description,
		SerialNumber: l.SerialNumber,
	}
}

// DeliveryNoteResponse is the response body for a delivery note.
type DeliveryNoteResponse struct {
	DocumentResponse
	ProjectID       string                     `json:"projectId"`
	ClientID        *string                    `json:"clientId,omitempty"`
	Direction       delivery_note.Direction    `json:"direction"`
	Status          delivery_note.Status       `json:"status"`
	ReturnOfID      *string                    `json:"returnOfId,omitempty"`
	SalesDocumentID *string                    `json:"salesDocumentId,omitempty"`
	Lines           []DeliveryNoteLineResponse `json:"lines"`
}

// FromDeliveryNote creates response DTO from domain entity.
func FromDeliveryNote(n *delivery_note.DeliveryNote) *DeliveryNoteResponse {
	lines := make([]DeliveryNoteLineResponse, len(n.Lines))
	for i, l := range n.Lines {
		lines[i] = FromDeliveryNoteLine(l)
	}
	return &DeliveryNoteResponse{
		DocumentResponse: FromDocument(n.Document),
		ProjectID:        n.ProjectID.String(),
		ClientID:         idString(n.ClientID),
		Direction:        n.Direction,
		Status:           n.Status,
		ReturnOfID:       idString(n.ReturnOfID),
		SalesDocumentID:  idString(n.SalesDocumentID),
		Lines:            lines,
	}
}

// --- Sales documents ---

// SalesDocumentLineRequest is one line of a sales document request.
type SalesDocumentLineRequest struct {
	ItemID      id.ID          `json:"itemId" binding:"required"`
	Quantity    types.Quantity `json:"quantity"`
	UnitPrice   types.Money    `json:"unitPrice"`
	Description string         `json:"description"`
}

func salesInputs(lines []SalesDocumentLineRequest) []sales_document.LineInput {
	out := make([]sales_document.LineInput, len(lines))
	for i, l := range lines {
		out[i] = sales_document.LineInput{
			ItemID:      l.ItemID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Description: l.Description,
		}
	}
	return out
}

// CreateSalesDocumentRequest is the request body for creating a sales document.
type CreateSalesDocumentRequest struct {
	Number    string                     `json:"number"`
	Date      *time.Time                 `json:"date"`
	Comment   string                     `json:"comment"`
	Type      sales_document.DocType     `json:"type" binding:"required,oneof=quote proforma invoice"`
	ProjectID id.ID                      `json:"projectId" binding:"required"`
	ClientID  *id.ID                     `json:"clientId"`
	Lines     []SalesDocumentLineRequest `json:"lines" binding:"dive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateSalesDocumentRequest) ToEntity() (*sales_document.SalesDocument, error) {
	doc := sales_document.NewSalesDocument(r.Type, r.ProjectID)
	doc.Number = strings.TrimSpace(r.Number)
	if r.Date != nil {
		doc.Date = r.Date.UTC()
	}
	doc.Comment = r.Comment
	doc.ClientID = id.ClonePtr(r.ClientID)
	if err := doc.SetLines(salesInputs(r.Lines)); err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateSalesDocumentRequest is the request body for updating a draft sales document.
type UpdateSalesDocumentRequest struct {
	Date      time.Time                  `json:"date" binding:"required"`
	Comment   string                     `json:"comment"`
	ProjectID id.ID                      `json:"projectId" binding:"required"`
	ClientID  *id.ID                     `json:"clientId"`
	Lines     []SalesDocumentLineRequest `json:"lines" binding:"dive"`
	Version   int                        `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity. Fails on a non-draft document.
func (r *UpdateSalesDocumentRequest) ApplyTo(doc *sales_document.SalesDocument) error {
	if err := doc.SetLines(salesInputs(r.Lines)); err != nil {
		return err
	}
	doc.Date = r.Date.UTC()
	doc.Comment = r.Comment
	doc.ProjectID = r.ProjectID
	doc.ClientID = id.ClonePtr(r.ClientID)
	doc.Version = r.Version
	return nil
}

// SalesDocumentQuery contains sales document list parameters.
type SalesDocumentQuery struct {
	ListQuery
	Type      string `form:"type" binding:"omitempty,oneof=quote proforma invoice"`
	Status    string `form:"status" binding:"omitempty,oneof=draft sent accepted collected cancelled"`
	ProjectID string `form:"projectId" binding:"omitempty,uuid"`
}

// ToFilter converts the query into a sales document filter.
func (q SalesDocumentQuery) ToFilter() sales_document.ListFilter {
	f := sales_document.ListFilter{ListFilter: q.ListQuery.ToFilter()}
	if q.Type != "" {
		t := sales_document.DocType(q.Type)
		f.Type = &t
	}
	if q.Status != "" {
		s := sales_document.Status(q.Status)
		f.Status = &s
	}
	if q.ProjectID != "" {
		p := id.MustParse(q.ProjectID)
		f.ProjectID = &p
	}
	return f
}

// SalesDocumentLineResponse is one line of a sales document response.
type SalesDocumentLineResponse struct {
	LineID      string         `json:"lineId"`
	LineNo      int            `json:"lineNo"`
	ItemID      string         `json:"itemId"`
	Quantity    types.Quantity `json:"quantity"`
	UnitPrice   types.Money    `json:"unitPrice"`
	LineTotal   types.Money    `json:"lineTotal"`
	Description string         `json:"description,omitempty"`
}

// SalesDocumentResponse is the response body for a sales document.
type SalesDocumentResponse struct {
	DocumentResponse
	Type      sales_document.DocType      `json:"type"`
	ProjectID string                      `json:"projectId"`
	ClientID  *string                     `json:"clientId,omitempty"`
	Status    sales_document.Status       `json:"status"`
	Total     types.Money                 `json:"total"`
	Lines     []SalesDocumentLineResponse `json:"lines"`
}

// FromSalesDocument creates response DTO from domain entity.
func FromSalesDocument(d *sales_document.SalesDocument) *SalesDocumentResponse {
	lines := make([]SalesDocumentLineResponse, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = SalesDocumentLineResponse{
			LineID:      l.LineID.String(),
			LineNo:      l.LineNo,
			ItemID:      l.ItemID.String(),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
			Description: l.Description,
		}
	}
	return &SalesDocumentResponse{
		DocumentResponse: FromDocument(d.Document),
		Type:             d.Type,
		ProjectID:        d.ProjectID.String(),
		ClientID:         idString(d.ClientID),
		Status:           d.Status,
		Total:            d.Total,
		Lines:            lines,
	}
}
