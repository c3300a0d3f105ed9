package handlers

import (
	"github.com/gin-gonic/gin"

	"stockview/internal/domain/inventory"
	"stockview/internal/infrastructure/http/v1/dto"
)

// InventoryHandler serves enriched item views and data quality issues.
type InventoryHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ListItems handles GET /inventory/items
func (h *InventoryHandler) ListItems(c *gin.Context) {
	var q dto.InventoryQuery
	if !h.BindQuery(c, &q) {
		return
	}

	views, err := h.service.ListEnrichedItems(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewInventoryListResponse(views))
}

// GetItem handles GET /inventory/items/:id
func (h *InventoryHandler) GetItem(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	view, err := h.service.GetEnrichedItem(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, view)
}

// DataQuality handles GET /inventory/data-quality
func (h *InventoryHandler) DataQuality(c *gin.Context) {
	issues, err := h.service.DataQuality(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewDataQualityResponse(issues))
}

// RegisterRoutes registers inventory routes.
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/items", h.ListItems)
	rg.GET("/items/:id", h.GetItem)
	rg.GET("/data-quality", h.DataQuality)
}
