// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"stockview/internal/core/id"
	"stockview/internal/domain"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/infrastructure/storage/postgres"
)

// TableItems holds the item catalog.
const TableItems = "items"

var catalogOrder = map[string]string{
	"":     postgres.InsertionOrder,
	"code": "code",
	"name": "lower(name)",
}

// ItemRepo implements item.Repository.
type ItemRepo struct {
	*postgres.Table[item.InventoryItem]
}

var _ item.Repository = (*ItemRepo)(nil)

// NewItemRepo creates an item repository.
func NewItemRepo(txm *postgres.TxManager) *ItemRepo {
	return &ItemRepo{postgres.NewTable[item.InventoryItem](txm, TableItems, "inventory item", catalogOrder)}
}

func (r *ItemRepo) Create(ctx context.Context, it *item.InventoryItem) error {
	return r.Insert(ctx, it)
}

func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.InventoryItem, error) {
	return r.Get(ctx, squirrel.Eq{"id": itemID}, itemID.String())
}

func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*item.InventoryItem, error) {
	return r.Get(ctx, squirrel.Eq{"code": code}, code)
}

func (r *ItemRepo) Update(ctx context.Context, it *item.InventoryItem) error {
	return postgres.UpdateVersioned(ctx, r.Table, it)
}

func (r *ItemRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*item.InventoryItem], error) {
	return r.ListItems(ctx, item.ListFilter{ListFilter: filter})
}

func (r *ItemRepo) ListItems(ctx context.Context, filter item.ListFilter) (domain.ListResult[*item.InventoryItem], error) {
	q := searchCodeName(r.Select(), filter.Search)
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.ActiveOnly {
		q = q.Where(squirrel.Eq{"active": true})
	}
	return r.Page(ctx, q, filter.ListFilter)
}

func (r *ItemRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return r.Exists(ctx, squirrel.Eq{"code": code})
}

func searchCodeName(q squirrel.SelectBuilder, search string) squirrel.SelectBuilder {
	if search == "" {
		return q
	}
	pattern := "%" + search + "%"
	return q.Where(squirrel.Or{
		squirrel.ILike{"name": pattern},
		squirrel.ILike{"code": pattern},
	})
}
