package item

import (
	"context"

	"stockview/internal/domain"
)

// Repository defines the interface for inventory item persistence.
// Listings are returned in catalog insertion order unless OrderBy is set.
type Repository interface {
	domain.CatalogRepository[*InventoryItem]

	// ListItems retrieves items filtered by type and active flag.
	ListItems(ctx context.Context, filter ListFilter) (domain.ListResult[*InventoryItem], error)
}

// ListFilter narrows item listings.
type ListFilter struct {
	domain.ListFilter

	Type       *ItemType
	ActiveOnly bool
}

// Matches reports whether it passes the type and active criteria.
func (f ListFilter) Matches(it *InventoryItem) bool {
	if f.Type != nil && it.Type != *f.Type {
		return false
	}
	if f.ActiveOnly && !it.Active {
		return false
	}
	return true
}
