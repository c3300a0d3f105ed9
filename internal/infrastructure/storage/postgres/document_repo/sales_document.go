package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"stockview/internal/core/id"
	"stockview/internal/domain"
	"stockview/internal/domain/documents/sales_document"
	"stockview/internal/infrastructure/storage/postgres"
)

const (
	TableSalesDocuments     = "sales_documents"
	TableSalesDocumentLines = "sales_document_lines"
)

// SalesDocumentRepo implements sales_document.Repository.
type SalesDocumentRepo struct {
	*postgres.Table[sales_document.SalesDocument]
	lines *postgres.Table[sales_document.Line]
}

var _ sales_document.Repository = (*SalesDocumentRepo)(nil)

// NewSalesDocumentRepo creates a sales document repository.
func NewSalesDocumentRepo(txm *postgres.TxManager) *SalesDocumentRepo {
	return &SalesDocumentRepo{
		Table: postgres.NewTable[sales_document.SalesDocument](txm, TableSalesDocuments, "sales document", documentOrder),
		lines: postgres.NewTable[sales_document.Line](txm, TableSalesDocumentLines, "sales document line", nil),
	}
}

func (r *SalesDocumentRepo) Create(ctx context.Context, doc *sales_document.SalesDocument) error {
	return r.Insert(ctx, doc)
}

func (r *SalesDocumentRepo) GetByID(ctx context.Context, docID id.ID) (*sales_document.SalesDocument, error) {
	return r.Get(ctx, squirrel.Eq{"id": docID}, docID.String())
}

func (r *SalesDocumentRepo) Update(ctx context.Context, doc *sales_document.SalesDocument) error {
	return postgres.UpdateVersioned(ctx, r.Table, doc)
}

func (r *SalesDocumentRepo) GetLines(ctx context.Context, docID id.ID) ([]sales_document.Line, error) {
	rows, err := r.lines.All(ctx, r.lines.Select().
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no ASC"))
	if err != nil {
		return nil, err
	}
	out := make([]sales_document.Line, len(rows))
	for i, row := range rows {
		out[i] = *row
	}
	return out, nil
}

func (r *SalesDocumentRepo) SaveLines(ctx context.Context, docID id.ID, lines []sales_document.Line) error {
	saved := append([]sales_document.Line(nil), lines...)
	for i := range saved {
		saved[i].DocumentID = docID
	}
	return r.lines.ReplaceChildren(ctx, "document_id", docID, saved)
}

func (r *SalesDocumentRepo) List(ctx context.Context, filter sales_document.ListFilter) (domain.ListResult[*sales_document.SalesDocument], error) {
	q := searchNumber(r.Select(), filter.Search)
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.ProjectID != nil {
		q = q.Where(squirrel.Eq{"project_id": *filter.ProjectID})
	}
	return r.Page(ctx, q, filter.ListFilter)
}
