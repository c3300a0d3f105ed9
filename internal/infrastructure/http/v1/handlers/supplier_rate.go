package handlers

import (
	"github.com/gin-gonic/gin"

	"stockview/internal/domain/catalogs/supplier_rate"
	"stockview/internal/infrastructure/http/v1/dto"
)

// SupplierRateHandler serves supplier cost quotes.
type SupplierRateHandler struct {
	*BaseHandler
	service *supplier_rate.Service
}

// NewSupplierRateHandler creates a new supplier rate handler.
func NewSupplierRateHandler(base *BaseHandler, service *supplier_rate.Service) *SupplierRateHandler {
	return &SupplierRateHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalog/supplier-rates
func (h *SupplierRateHandler) Create(c *gin.Context) {
	var req dto.CreateSupplierRateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rate := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), rate); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromSupplierRate(rate))
}

// Get handles GET /catalog/supplier-rates/:id
func (h *SupplierRateHandler) Get(c *gin.Context) {
	rateID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	rate, err := h.service.GetByID(c.Request.Context(), rateID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSupplierRate(rate))
}

// Update handles PUT /catalog/supplier-rates/:id
func (h *SupplierRateHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	rateID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSupplierRateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rate, err := h.service.GetByID(ctx, rateID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(rate)

	if err := h.service.Update(ctx, rate); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSupplierRate(rate))
}

// Delete handles DELETE /catalog/supplier-rates/:id - deactivation.
func (h *SupplierRateHandler) Delete(c *gin.Context) {
	rateID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	rate, err := h.service.Deactivate(c.Request.Context(), rateID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSupplierRate(rate))
}

// ListByItem handles GET /catalog/items/:id/supplier-rates
func (h *SupplierRateHandler) ListByItem(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	rates, err := h.service.ListByItem(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.SupplierRateResponse, len(rates))
	for i, r := range rates {
		items[i] = dto.FromSupplierRate(r)
	}
	h.OK(c, gin.H{"items": items})
}

// RegisterRoutes registers supplier rate routes.
func (h *SupplierRateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
