package handlers

import (
	"github.com/gin-gonic/gin"

	"stockview/internal/domain"
	"stockview/internal/domain/catalogs/category"
	"stockview/internal/infrastructure/http/v1/dto"
)

// CategoryHTTPHandler serves the category catalog.
type CategoryHTTPHandler = CatalogHandler[
	*category.Category,
	dto.CreateCategoryRequest,
	struct{},
]

// NewCategoryHandler creates the category handler. Categories are create-only.
func NewCategoryHandler(base *BaseHandler, service *category.Service) *CategoryHTTPHandler {
	config := CatalogHandlerConfig[
		*category.Category,
		dto.CreateCategoryRequest,
		struct{},
	]{
		Service:    service,
		EntityName: "category",

		MapCreateDTO: func(req *dto.CreateCategoryRequest) *category.Category {
			return req.ToEntity()
		},
		MapToDTO: func(entity *category.Category) any {
			return dto.FromCategory(entity)
		},

		List: func(c *gin.Context) (domain.ListResult[*category.Category], bool) {
			var q dto.ListQuery
			if !base.BindQuery(c, &q) {
				return domain.ListResult[*category.Category]{}, false
			}
			res, err := service.List(c.Request.Context(), q.ToFilter())
			if err != nil {
				base.Error(c, err)
				return res, false
			}
			return res, true
		},
	}

	return NewCatalogHandler(base, config)
}
