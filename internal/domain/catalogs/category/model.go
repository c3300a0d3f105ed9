// Package category provides the item category catalog.
package category

import (
	"stockview/internal/core/entity"
)

// Category groups inventory items for display.
type Category struct {
	entity.Catalog
}

// NewCategory creates a new category.
func NewCategory(code, name string) *Category {
	return &Category{Catalog: entity.NewCatalog(code, name)}
}

// Clone returns a copy.
func (c *Category) Clone() *Category {
	cp := *c
	return &cp
}
