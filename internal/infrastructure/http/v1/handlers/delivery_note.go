package handlers

import (
	"github.com/gin-gonic/gin"

	"stockview/internal/domain"
	"stockview/internal/domain/documents/delivery_note"
	"stockview/internal/infrastructure/http/v1/dto"
)

// DeliveryNoteHandler serves delivery notes and their lines.
type DeliveryNoteHandler struct {
	*BaseDocumentHandler[*delivery_note.DeliveryNote, dto.CreateDeliveryNoteRequest, dto.UpdateDeliveryNoteRequest]
	service *delivery_note.Service
}

// NewDeliveryNoteHandler creates a new delivery note handler.
func NewDeliveryNoteHandler(base *BaseHandler, service *delivery_note.Service) *DeliveryNoteHandler {
	config := BaseDocumentHandlerConfig[
		*delivery_note.DeliveryNote,
		dto.CreateDeliveryNoteRequest,
		dto.UpdateDeliveryNoteRequest,
	]{
		Service:    service,
		EntityName: "delivery note",

		MapCreateDTO: func(req *dto.CreateDeliveryNoteRequest) (*delivery_note.DeliveryNote, error) {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req *dto.UpdateDeliveryNoteRequest, existing *delivery_note.DeliveryNote) error {
			return req.ApplyTo(existing)
		},
		MapToDTO: func(entity *delivery_note.DeliveryNote) any {
			return dto.FromDeliveryNote(entity)
		},

		List: func(c *gin.Context) (domain.ListResult[*delivery_note.DeliveryNote], bool) {
			var q dto.DeliveryNoteQuery
			if !base.BindQuery(c, &q) {
				return domain.ListResult[*delivery_note.DeliveryNote]{}, false
			}
			res, err := service.List(c.Request.Context(), q.ToFilter())
			if err != nil {
				base.Error(c, err)
				return res, false
			}
			return res, true
		},
		Transitions: map[string]Transition[*delivery_note.DeliveryNote]{
			"confirm": service.Confirm,
			"cancel":  service.Cancel,
		},
	}

	return &DeliveryNoteHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, config),
		service:             service,
	}
}

// CreateLine handles POST /document/delivery-notes/:id/lines
func (h *DeliveryNoteHandler) CreateLine(c *gin.Context) {
	noteID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.DeliveryNoteLineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	line, err := h.service.CreateLine(c.Request.Context(), noteID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromDeliveryNoteLine(*line))
}

// UpdateLine handles PUT /document/delivery-notes/:id/lines/:lineId
func (h *DeliveryNoteHandler) UpdateLine(c *gin.Context) {
	noteID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.ParseID(c, "lineId")
	if !ok {
		return
	}

	var req dto.DeliveryNoteLineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	line, err := h.service.UpdateLine(c.Request.Context(), noteID, lineID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromDeliveryNoteLine(*line))
}

// DeleteLine handles DELETE /document/delivery-notes/:id/lines/:lineId
func (h *DeliveryNoteHandler) DeleteLine(c *gin.Context) {
	noteID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.ParseID(c, "lineId")
	if !ok {
		return
	}

	if err := h.service.DeleteLine(c.Request.Context(), noteID, lineID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers document and line routes.
func (h *DeliveryNoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.BaseDocumentHandler.RegisterRoutes(rg)
	rg.POST("/:id/lines", h.CreateLine)
	rg.PUT("/:id/lines/:lineId", h.UpdateLine)
	rg.DELETE("/:id/lines/:lineId", h.DeleteLine)
}
