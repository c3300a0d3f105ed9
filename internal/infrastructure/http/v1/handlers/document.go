package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"stockview/internal/core/id"
	"stockview/internal/domain"
	"stockview/internal/infrastructure/http/v1/dto"
)

// DocumentService defines the interface that services must implement for BaseDocumentHandler.
type DocumentService[T any] interface {
	GetByID(ctx context.Context, id id.ID) (T, error)
	Create(ctx context.Context, entity T) error
	Update(ctx context.Context, entity T) error
}

// Transition is a lifecycle action exposed as POST /{entity}/:id/{name}.
type Transition[T any] func(ctx context.Context, id id.ID) (T, error)

// BaseDocumentHandler provides generic HTTP handlers for document entities.
type BaseDocumentHandler[T any, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service    DocumentService[T]
	entityName string

	// Mapper functions
	mapCreateDTO func(dto *CreateDTO) (T, error)
	mapUpdateDTO func(dto *UpdateDTO, existing T) error
	mapToDTO     func(entity T) any

	list        func(c *gin.Context) (domain.ListResult[T], bool)
	transitions map[string]Transition[T]
}

// BaseDocumentHandlerConfig configures the document handler.
type BaseDocumentHandlerConfig[T any, CreateDTO any, UpdateDTO any] struct {
	Service      DocumentService[T]
	EntityName   string
	MapCreateDTO func(dto *CreateDTO) (T, error)
	// MapUpdateDTO fails when the stored document may no longer be edited
	MapUpdateDTO func(dto *UpdateDTO, existing T) error
	MapToDTO     func(entity T) any

	List        func(c *gin.Context) (domain.ListResult[T], bool)
	Transitions map[string]Transition[T]
}

// NewBaseDocumentHandler creates a new base document handler.
func NewBaseDocumentHandler[T any, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg BaseDocumentHandlerConfig[T, CreateDTO, UpdateDTO],
) *BaseDocumentHandler[T, CreateDTO, UpdateDTO] {
	return &BaseDocumentHandler[T, CreateDTO, UpdateDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		entityName:   cfg.EntityName,
		mapCreateDTO: cfg.MapCreateDTO,
		mapUpdateDTO: cfg.MapUpdateDTO,
		mapToDTO:     cfg.MapToDTO,
		list:         cfg.List,
		transitions:  cfg.Transitions,
	}
}

// List handles GET /{entity}
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	result, ok := h.list(c)
	if !ok {
		return
	}
	h.OK(c, dto.NewListResponse(result, h.mapToDTO))
}

// Get handles GET /{entity}/:id
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.mapToDTO(doc))
}

// Create handles POST /{entity}
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.mapCreateDTO(&req)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, h.mapToDTO(doc))
}

// Update handles PUT /{entity}/:id
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.mapUpdateDTO(&req, doc); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.mapToDTO(doc))
}

// transition returns the handler of POST /{entity}/:id/{action}.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) transition(fn Transition[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		docID, ok := h.ParseID(c, "id")
		if !ok {
			return
		}

		doc, err := fn(c.Request.Context(), docID)
		if err != nil {
			h.Error(c, err)
			return
		}

		h.OK(c, h.mapToDTO(doc))
	}
}

// RegisterRoutes registers standard routes and one POST route per transition.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	for action, fn := range h.transitions {
		rg.POST("/:id/"+action, h.transition(fn))
	}
}
