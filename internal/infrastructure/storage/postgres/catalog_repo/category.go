package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"stockview/internal/core/id"
	"stockview/internal/domain"
	"stockview/internal/domain/catalogs/category"
	"stockview/internal/infrastructure/storage/postgres"
)

// TableCategories holds item categories.
const TableCategories = "categories"

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	*postgres.Table[category.Category]
}

var _ category.Repository = (*CategoryRepo)(nil)

// NewCategoryRepo creates a category repository.
func NewCategoryRepo(txm *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{postgres.NewTable[category.Category](txm, TableCategories, "category", catalogOrder)}
}

func (r *CategoryRepo) Create(ctx context.Context, c *category.Category) error {
	return r.Insert(ctx, c)
}

func (r *CategoryRepo) GetByID(ctx context.Context, categoryID id.ID) (*category.Category, error) {
	return r.Get(ctx, squirrel.Eq{"id": categoryID}, categoryID.String())
}

func (r *CategoryRepo) GetByCode(ctx context.Context, code string) (*category.Category, error) {
	return r.Get(ctx, squirrel.Eq{"code": code}, code)
}

func (r *CategoryRepo) Update(ctx context.Context, c *category.Category) error {
	return postgres.UpdateVersioned(ctx, r.Table, c)
}

func (r *CategoryRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*category.Category], error) {
	return r.Page(ctx, searchCodeName(r.Select(), filter.Search), filter)
}

func (r *CategoryRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return r.Exists(ctx, squirrel.Eq{"code": code})
}
