package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"stockview/internal/core/id"
	"stockview/internal/domain/catalogs/supplier_rate"
	"stockview/internal/infrastructure/storage/postgres"
)

// TableSupplierRates holds supplier cost quotes.
const TableSupplierRates = "supplier_rates"

// SupplierRateRepo implements supplier_rate.Repository.
type SupplierRateRepo struct {
	*postgres.Table[supplier_rate.SupplierRate]
}

var _ supplier_rate.Repository = (*SupplierRateRepo)(nil)

// NewSupplierRateRepo creates a supplier rate repository.
func NewSupplierRateRepo(txm *postgres.TxManager) *SupplierRateRepo {
	return &SupplierRateRepo{postgres.NewTable[supplier_rate.SupplierRate](txm, TableSupplierRates, "supplier rate", nil)}
}

func (r *SupplierRateRepo) Create(ctx context.Context, rate *supplier_rate.SupplierRate) error {
	return r.Insert(ctx, rate)
}

func (r *SupplierRateRepo) GetByID(ctx context.Context, rateID id.ID) (*supplier_rate.SupplierRate, error) {
	return r.Get(ctx, squirrel.Eq{"id": rateID}, rateID.String())
}

func (r *SupplierRateRepo) Update(ctx context.Context, rate *supplier_rate.SupplierRate) error {
	return postgres.UpdateVersioned(ctx, r.Table, rate)
}

func (r *SupplierRateRepo) ListByItem(ctx context.Context, itemID id.ID) ([]*supplier_rate.SupplierRate, error) {
	rates, err := r.All(ctx, r.Select().Where(squirrel.Eq{"item_id": itemID}).OrderBy(postgres.InsertionOrder))
	if err != nil {
		return nil, err
	}
	if rates == nil {
		rates = []*supplier_rate.SupplierRate{}
	}
	return rates, nil
}
