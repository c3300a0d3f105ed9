// Package item provides the inventory item catalog.
// Items are products or services; only stockable items carry stock figures.
package item

import (
	"context"

	"stockview/internal/core/apperror"
	"stockview/internal/core/entity"
	"stockview/internal/core/id"
	"stockview/internal/core/types"
)

// ItemType defines the type of item.
type ItemType string

const (
	TypeProduct ItemType = "product"
	TypeService ItemType = "service"
)

// ParseItemType validates a raw type value.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !t.IsValid() {
		return "", apperror.NewValidation("invalid item type").
			WithDetail("field", "type").
			WithDetail("value", s)
	}
	return t, nil
}

// IsValid reports whether t is a known item type.
func (t ItemType) IsValid() bool {
	switch t {
	case TypeProduct, TypeService:
		return true
	}
	return false
}

// InventoryItem is a catalog entry. Code is the internal code.
type InventoryItem struct {
	entity.Catalog

	Type       ItemType `db:"type" json:"type"`
	CategoryID *id.ID   `db:"category_id" json:"categoryId,omitempty"`

	// Stockable items are counted in the warehouse; other items never carry stock figures
	Stockable bool `db:"stockable" json:"stockable"`

	BasePrice types.Money `db:"base_price" json:"basePrice"`
	CostPrice types.Money `db:"cost_price" json:"costPrice"`

	// WarehouseQty is the baseline quantity physically owned
	WarehouseQty types.Quantity `db:"warehouse_qty" json:"warehouseQty"`
	MinStock     types.Quantity `db:"min_stock" json:"minStock"`

	Active bool `db:"active" json:"active"`
}

// NewInventoryItem creates an active item with zero prices and stock.
func NewInventoryItem(code, name string, itemType ItemType) *InventoryItem {
	return &InventoryItem{
		Catalog:   entity.NewCatalog(code, name),
		Type:      itemType,
		Stockable: itemType == TypeProduct,
		BasePrice: types.Zero(),
		CostPrice: types.Zero(),
		Active:    true,
	}
}

// Validate implements entity.Validatable interface.
func (i *InventoryItem) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !i.Type.IsValid() {
		return apperror.NewValidation("invalid item type").
			WithDetail("field", "type").
			WithDetail("value", string(i.Type))
	}

	if i.Type == TypeService && i.Stockable {
		return apperror.NewValidation("services cannot be stockable").
			WithDetail("field", "stockable")
	}

	if i.BasePrice.IsNegative() {
		return apperror.NewValidation("base price cannot be negative").
			WithDetail("field", "basePrice")
	}
	if i.CostPrice.IsNegative() {
		return apperror.NewValidation("cost price cannot be negative").
			WithDetail("field", "costPrice")
	}
	if i.WarehouseQty.IsNegative() {
		return apperror.NewValidation("warehouse quantity cannot be negative").
			WithDetail("field", "warehouseQty")
	}
	if i.MinStock.IsNegative() {
		return apperror.NewValidation("minimum stock cannot be negative").
			WithDetail("field", "minStock")
	}

	return nil
}

// Deactivate soft-deletes the item. Items are never physically removed.
func (i *InventoryItem) Deactivate() {
	i.Active = false
}

// Clone returns a deep copy.
func (i *InventoryItem) Clone() *InventoryItem {
	c := *i
	c.CategoryID = id.ClonePtr(i.CategoryID)
	return &c
}
