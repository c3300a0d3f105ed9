package memory

import (
	"context"
	"strings"

	"stockview/internal/core/apperror"
	"stockview/internal/core/id"
	"stockview/internal/domain"
	"stockview/internal/domain/catalogs/category"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/catalogs/supplier_rate"
)

var catalogOrder = map[string]func(*item.InventoryItem) string{
	"code": func(v *item.InventoryItem) string { return v.Code },
	"name": func(v *item.InventoryItem) string { return strings.ToLower(v.Name) },
}

// ItemRepo implements item.Repository.
type ItemRepo struct {
	store *Store
}

// NewItemRepo creates an item repository.
func NewItemRepo(s *Store) *ItemRepo {
	return &ItemRepo{store: s}
}

func (r *ItemRepo) Create(ctx context.Context, it *item.InventoryItem) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, ok := d.items.get(it.ID); ok {
			return apperror.NewDuplicate("inventory item", "id", it.ID.String())
		}
		if codeTaken(d, it.Code, it.ID) {
			return apperror.NewDuplicate("inventory item", "code", it.Code)
		}
		d.items.insert(it.ID, it.Clone())
		return nil
	})
}

func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.InventoryItem, error) {
	var out *item.InventoryItem
	err := r.store.read(ctx, func(d *dataset) error {
		v, ok := d.items.get(itemID)
		if !ok {
			return apperror.NewNotFound("inventory item", itemID.String())
		}
		out = v.Clone()
		return nil
	})
	return out, err
}

func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*item.InventoryItem, error) {
	var out *item.InventoryItem
	err := r.store.read(ctx, func(d *dataset) error {
		d.items.each(func(v *item.InventoryItem) {
			if out == nil && v.Code == code {
				out = v.Clone()
			}
		})
		if out == nil {
			return apperror.NewNotFound("inventory item", code)
		}
		return nil
	})
	return out, err
}

func (r *ItemRepo) Update(ctx context.Context, it *item.InventoryItem) error {
	return r.store.write(ctx, func(d *dataset) error {
		stored, ok := d.items.get(it.ID)
		if !ok {
			return apperror.NewNotFound("inventory item", it.ID.String())
		}
		if stored.Version != it.Version {
			return apperror.NewConcurrentModification("inventory item", it.ID.String())
		}
		if codeTaken(d, it.Code, it.ID) {
			return apperror.NewDuplicate("inventory item", "code", it.Code)
		}
		it.Touch()
		d.items.put(it.ID, it.Clone())
		return nil
	})
}

func (r *ItemRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*item.InventoryItem], error) {
	return r.ListItems(ctx, item.ListFilter{ListFilter: filter})
}

func (r *ItemRepo) ListItems(ctx context.Context, filter item.ListFilter) (domain.ListResult[*item.InventoryItem], error) {
	var all []*item.InventoryItem
	allowed := idFilter(filter.IDs)
	err := r.store.read(ctx, func(d *dataset) error {
		d.items.each(func(v *item.InventoryItem) {
			if allowed(v.ID) && filter.Matches(v) && matchesSearch(filter.Search, v.Code, v.Name) {
				all = append(all, v.Clone())
			}
		})
		return nil
	})
	if err != nil {
		return domain.ListResult[*item.InventoryItem]{}, err
	}
	sortBy(all, filter.OrderBy, catalogOrder)
	return domain.Paginate(all, filter.Limit, filter.Offset), nil
}

func (r *ItemRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.store.read(ctx, func(d *dataset) error {
		exists = codeTaken(d, code, id.Nil())
		return nil
	})
	return exists, err
}

func codeTaken(d *dataset, code string, except id.ID) bool {
	taken := false
	d.items.each(func(v *item.InventoryItem) {
		if v.Code == code && v.ID != except {
			taken = true
		}
	})
	return taken
}

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	store *Store
}

// NewCategoryRepo creates a category repository.
func NewCategoryRepo(s *Store) *CategoryRepo {
	return &CategoryRepo{store: s}
}

func (r *CategoryRepo) Create(ctx context.Context, c *category.Category) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, ok := d.categories.get(c.ID); ok {
			return apperror.NewDuplicate("category", "id", c.ID.String())
		}
		d.categories.insert(c.ID, c.Clone())
		return nil
	})
}

func (r *CategoryRepo) GetByID(ctx context.Context, categoryID id.ID) (*category.Category, error) {
	var out *category.Category
	err := r.store.read(ctx, func(d *dataset) error {
		v, ok := d.categories.get(categoryID)
		if !ok {
			return apperror.NewNotFound("category", categoryID.String())
		}
		out = v.Clone()
		return nil
	})
	return out, err
}

func (r *CategoryRepo) GetByCode(ctx context.Context, code string) (*category.Category, error) {
	var out *category.Category
	err := r.store.read(ctx, func(d *dataset) error {
		d.categories.each(func(v *category.Category) {
			if out == nil && v.Code == code {
				out = v.Clone()
			}
		})
		if out == nil {
			return apperror.NewNotFound("category", code)
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Update(ctx context.Context, c *category.Category) error {
	return r.store.write(ctx, func(d *dataset) error {
		stored, ok := d.categories.get(c.ID)
		if !ok {
			return apperror.NewNotFound("category", c.ID.String())
		}
		if stored.Version != c.Version {
			return apperror.NewConcurrentModification("category", c.ID.String())
		}
		c.Touch()
		d.categories.put(c.ID, c.Clone())
		return nil
	})
}

func (r *CategoryRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*category.Category], error) {
	var all []*category.Category
	allowed := idFilter(filter.IDs)
	err := r.store.read(ctx, func(d *dataset) error {
		d.categories.each(func(v *category.Category) {
			if allowed(v.ID) && matchesSearch(filter.Search, v.Code, v.Name) {
				all = append(all, v.Clone())
			}
		})
		return nil
	})
	if err != nil {
		return domain.ListResult[*category.Category]{}, err
	}
	sortBy(all, filter.OrderBy, map[string]func(*category.Category) string{
		"code": func(v *category.Category) string { return v.Code },
		"name": func(v *category.Category) string { return strings.ToLower(v.Name) },
	})
	return domain.Paginate(all, filter.Limit, filter.Offset), nil
}

func (r *CategoryRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := r.GetByCode(ctx, code)
	if apperror.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

// SupplierRateRepo implements supplier_rate.Repository.
type SupplierRateRepo struct {
	store *Store
}

// NewSupplierRateRepo creates a supplier rate repository.
func NewSupplierRateRepo(s *Store) *SupplierRateRepo {
	return &SupplierRateRepo{store: s}
}

func (r *SupplierRateRepo) Create(ctx context.Context, rate *supplier_rate.SupplierRate) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, ok := d.rates.get(rate.ID); ok {
			return apperror.NewDuplicate("supplier rate", "id", rate.ID.String())
		}
		d.rates.insert(rate.ID, rate.Clone())
		return nil
	})
}

func (r *SupplierRateRepo) GetByID(ctx context.Context, rateID id.ID) (*supplier_rate.SupplierRate, error) {
	var out *supplier_rate.SupplierRate
	err := r.store.read(ctx, func(d *dataset) error {
		v, ok := d.rates.get(rateID)
		if !ok {
			return apperror.NewNotFound("supplier rate", rateID.String())
		}
		out = v.Clone()
		return nil
	})
	return out, err
}

func (r *SupplierRateRepo) Update(ctx context.Context, rate *supplier_rate.SupplierRate) error {
	return r.store.write(ctx, func(d *dataset) error {
		stored, ok := d.rates.get(rate.ID)
		if !ok {
			return apperror.NewNotFound("supplier rate", rate.ID.String())
		}
		if stored.Version != rate.Version {
			return apperror.NewConcurrentModification("supplier rate", rate.ID.String())
		}
		rate.Touch()
		d.rates.put(rate.ID, rate.Clone())
		return nil
	})
}

func (r *SupplierRateRepo) ListByItem(ctx context.Context, itemID id.ID) ([]*supplier_rate.SupplierRate, error) {
	out := make([]*supplier_rate.SupplierRate, 0)
	err := r.store.read(ctx, func(d *dataset) error {
		d.rates.each(func(v *supplier_rate.SupplierRate) {
			if v.ItemID == itemID {
				out = append(out, v.Clone())
			}
		})
		return nil
	})
	return out, err
}

var (
	_ item.Repository          = (*ItemRepo)(nil)
	_ category.Repository      = (*CategoryRepo)(nil)
	_ supplier_rate.Repository = (*SupplierRateRepo)(nil)
)
