package dto

import (
	"stockview/internal/core/id"
	"stockview/internal/core/types"
	"stockview/internal/domain/catalogs/category"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/catalogs/supplier_rate"
)

// --- Items ---

// CreateItemRequest is the request body for creating an inventory item.
// An empty code is generated.
type CreateItemRequest struct {
	Code         string         `json:"code"`
	Name         string         `json:"name" binding:"required"`
	Type         item.ItemType  `json:"type" binding:"required,oneof=product service"`
	CategoryID   *id.ID         `json:"categoryId"`
	Stockable    *bool          `json:"stockable"`
	BasePrice    types.Money    `json:"basePrice"`
	CostPrice    types.Money    `json:"costPrice"`
	WarehouseQty types.Quantity `json:"warehouseQty"`
	MinStock     types.Quantity `json:"minStock"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateItemRequest) ToEntity() *item.InventoryItem {
	it := item.NewInventoryItem(r.Code, r.Name, r.Type)
	it.CategoryID = id.ClonePtr(r.CategoryID)
	if r.Stockable != nil {
		it.Stockable = *r.Stockable
	}
	it.BasePrice = r.BasePrice
	it.CostPrice = r.CostPrice
	it.WarehouseQty = r.WarehouseQty
	it.MinStock = r.MinStock
	return it
}

// UpdateItemRequest is the request body for updating an inventory item.
type UpdateItemRequest struct {
	Code         string         `json:"code" binding:"required"`
	Name         string         `json:"name" binding:"required"`
	Type         item.ItemType  `json:"type" binding:"required,oneof=product service"`
	CategoryID   *id.ID         `json:"categoryId"`
	Stockable    bool           `json:"stockable"`
	BasePrice    types.Money    `json:"basePrice"`
	CostPrice    types.Money    `json:"costPrice"`
	WarehouseQty types.Quantity `json:"warehouseQty"`
	MinStock     types.Quantity `json:"minStock"`
	Active       bool           `json:"active"`
	Version      int            `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateItemRequest) ApplyTo(it *item.InventoryItem) {
	it.Code = r.Code
	it.Name = r.Name
	it.Type = r.Type
	it.CategoryID = id.ClonePtr(r.CategoryID)
	it.Stockable = r.Stockable
	it.BasePrice = r.BasePrice
	it.CostPrice = r.CostPrice
	it.WarehouseQty = r.WarehouseQty
	it.MinStock = r.MinStock
	it.Active = r.Active
	it.Version = r.Version
}

// ItemQuery contains item list parameters.
type ItemQuery struct {
	ListQuery
	Type       string `form:"type" binding:"omitempty,oneof=product service"`
	ActiveOnly bool   `form:"activeOnly"`
}

// ToFilter converts the query into an item filter.
func (q ItemQuery) ToFilter() item.ListFilter {
	f := item.ListFilter{ListFilter: q.ListQuery.ToFilter(), ActiveOnly: q.ActiveOnly}
	if q.Type != "" {
		t := item.ItemType(q.Type)
		f.Type = &t
	}
	return f
}

// ItemResponse is the response body for an inventory item.
type ItemResponse struct {
	CatalogResponse
	Type         item.ItemType  `json:"type"`
	CategoryID   *string        `json:"categoryId,omitempty"`
	Stockable    bool           `json:"stockable"`
	BasePrice    types.Money    `json:"basePrice"`
	CostPrice    types.Money    `json:"costPrice"`
	WarehouseQty types.Quantity `json:"warehouseQty"`
	MinStock     types.Quantity `json:"minStock"`
	Active       bool           `json:"active"`
}

// FromItem creates response DTO from domain entity.
func FromItem(it *item.InventoryItem) *ItemResponse {
	return &ItemResponse{
		CatalogResponse: FromCatalog(it.Catalog),
		Type:            it.Type,
		CategoryID:      idString(it.CategoryID),
		Stockable:       it.Stockable,
		BasePrice:       it.BasePrice,
		CostPrice:       it.CostPrice,
		WarehouseQty:    it.WarehouseQty,
		MinStock:        it.MinStock,
		Active:          it.Active,
	}
}

// --- Categories ---

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCategoryRequest) ToEntity() *category.Category {
	return category.NewCategory(r.Code, r.Name)
}

// CategoryResponse is the response body for a category.
type CategoryResponse struct {
	CatalogResponse
}

// FromCategory creates response DTO from domain entity.
func FromCategory(c *category.Category) *CategoryResponse {
	return &CategoryResponse{CatalogResponse: FromCatalog(c.Catalog)}
}

// --- Supplier rates ---

// CreateSupplierRateRequest is the request body for creating a supplier rate.
type CreateSupplierRateRequest struct {
	ItemID       id.ID       `json:"itemId" binding:"required"`
	SupplierName string      `json:"supplierName"`
	CostPrice    types.Money `json:"costPrice"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateSupplierRateRequest) ToEntity() *supplier_rate.SupplierRate {
	return supplier_rate.NewSupplierRate(r.ItemID, r.SupplierName, r.CostPrice)
}

// UpdateSupplierRateRequest is the request body for updating a supplier rate.
type UpdateSupplierRateRequest struct {
	SupplierName string      `json:"supplierName"`
	CostPrice    types.Money `json:"costPrice"`
	Active       bool        `json:"active"`
	Version      int         `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateSupplierRateRequest) ApplyTo(rate *supplier_rate.SupplierRate) {
	rate.SupplierName = r.SupplierName
	rate.CostPrice = r.CostPrice
	rate.Active = r.Active
	rate.Version = r.Version
}

// SupplierRateResponse is the response body for a supplier rate.
type SupplierRateResponse struct {
	ID           string      `json:"id"`
	Version      int         `json:"version"`
	ItemID       string      `json:"itemId"`
	SupplierName string      `json:"supplierName"`
	CostPrice    types.Money `json:"costPrice"`
	Active       bool        `json:"active"`
}

// FromSupplierRate creates response DTO from domain entity.
func FromSupplierRate(r *supplier_rate.SupplierRate) *SupplierRateResponse {
	return &SupplierRateResponse{
		ID:           r.ID.String(),
		Version:      r.Version,
		ItemID:       r.ItemID.String(),
		SupplierName: r.SupplierName,
		CostPrice:    r.CostPrice,
		Active:       r.Active,
	}
}
