package handlers

import (
	"github.com/gin-gonic/gin"

	"stockview/internal/domain"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/infrastructure/http/v1/dto"
)

// ItemHTTPHandler serves the inventory item catalog.
type ItemHTTPHandler = CatalogHandler[
	*item.InventoryItem,
	dto.CreateItemRequest,
	dto.UpdateItemRequest,
]

// NewItemHandler creates the item catalog handler.
func NewItemHandler(base *BaseHandler, service *item.Service) *ItemHTTPHandler {
	config := CatalogHandlerConfig[
		*item.InventoryItem,
		dto.CreateItemRequest,
		dto.UpdateItemRequest,
	]{
		// item.Service generates missing codes on Create
		Service:    service,
		EntityName: "inventory item",

		MapCreateDTO: func(req *dto.CreateItemRequest) *item.InventoryItem {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req *dto.UpdateItemRequest, existing *item.InventoryItem) {
			req.ApplyTo(existing)
		},
		MapToDTO: func(entity *item.InventoryItem) any {
			return dto.FromItem(entity)
		},

		List: func(c *gin.Context) (domain.ListResult[*item.InventoryItem], bool) {
			var q dto.ItemQuery
			if !base.BindQuery(c, &q) {
				return domain.ListResult[*item.InventoryItem]{}, false
			}
			res, err := service.List(c.Request.Context(), q.ToFilter())
			if err != nil {
				base.Error(c, err)
				return res, false
			}
			return res, true
		},
		Deactivate: service.Deactivate,
	}

	return NewCatalogHandler(base, config)
}
