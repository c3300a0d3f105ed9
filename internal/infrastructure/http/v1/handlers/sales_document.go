package handlers

import (
	"github.com/gin-gonic/gin"

	"stockview/internal/domain"
	"stockview/internal/domain/documents/sales_document"
	"stockview/internal/infrastructure/http/v1/dto"
)

// SalesDocumentHTTPHandler serves quotes and invoices.
type SalesDocumentHTTPHandler = BaseDocumentHandler[
	*sales_document.SalesDocument,
	dto.CreateSalesDocumentRequest,
	dto.UpdateSalesDocumentRequest,
]

// NewSalesDocumentHandler creates a new sales document handler.
func NewSalesDocumentHandler(base *BaseHandler, service *sales_document.Service) *SalesDocumentHTTPHandler {
	config := BaseDocumentHandlerConfig[
		*sales_document.SalesDocument,
		dto.CreateSalesDocumentRequest,
		dto.UpdateSalesDocumentRequest,
	]{
		Service:    service,
		EntityName: "sales document",

		MapCreateDTO: func(req *dto.CreateSalesDocumentRequest) (*sales_document.SalesDocument, error) {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req *dto.UpdateSalesDocumentRequest, existing *sales_document.SalesDocument) error {
			return req.ApplyTo(existing)
		},
		MapToDTO: func(entity *sales_document.SalesDocument) any {
			return dto.FromSalesDocument(entity)
		},

		List: func(c *gin.Context) (domain.ListResult[*sales_document.SalesDocument], bool) {
			var q dto.SalesDocumentQuery
			if !base.BindQuery(c, &q) {
				return domain.ListResult[*sales_document.SalesDocument]{}, false
			}
			res, err := service.List(c.Request.Context(), q.ToFilter())
			if err != nil {
				base.Error(c, err)
				return res, false
			}
			return res, true
		},
		Transitions: map[string]Transition[*sales_document.SalesDocument]{
			"send":    service.Send,
			"accept":  service.Accept,
			"collect": service.Collect,
			"cancel":  service.Cancel,
		},
	}

	return NewBaseDocumentHandler(base, config)
}
