// Package supplier_rate provides supplier cost quotes for inventory items.
package supplier_rate

import (
	"context"
	"strings"

	"stockview/internal/core/apperror"
	"stockview/internal/core/entity"
	"stockview/internal/core/id"
	"stockview/internal/core/types"
)

// SupplierRate is a supplier's quoted acquisition cost for one item.
type SupplierRate struct {
	entity.BaseEntity

	ItemID       id.ID       `db:"item_id" json:"itemId"`
	SupplierName string      `db:"supplier_name" json:"supplierName"`
	CostPrice    types.Money `db:"cost_price" json:"costPrice"`
	Active       bool        `db:"active" json:"active"`
}

// NewSupplierRate creates an active rate.
func NewSupplierRate(itemID id.ID, supplierName string, cost types.Money) *SupplierRate {
	return &SupplierRate{
		BaseEntity:   entity.NewBaseEntity(),
		ItemID:       itemID,
		SupplierName: strings.TrimSpace(supplierName),
		CostPrice:    cost,
		Active:       true,
	}
}

// Validate implements entity.Validatable.
// A zero cost is a legitimate free-supply rate.
func (r *SupplierRate) Validate(ctx context.Context) error {
	if id.IsNil(r.ItemID) {
		return apperror.NewValidation("item is required").
			WithDetail("field", "itemId")
	}
	if r.CostPrice.IsNegative() {
		return apperror.NewValidation("cost price cannot be negative").
			WithDetail("field", "costPrice")
	}
	return nil
}

// Clone returns a copy.
func (r *SupplierRate) Clone() *SupplierRate {
	c := *r
	return &c
}
