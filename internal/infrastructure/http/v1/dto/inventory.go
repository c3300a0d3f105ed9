package dto

import (
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/inventory"
	"stockview/internal/domain/reconcile"
)

// InventoryQuery contains enriched item list parameters.
type InventoryQuery struct {
	Type       string `form:"type" binding:"omitempty,oneof=product service"`
	ActiveOnly bool   `form:"activeOnly"`
	// Sort is code, name, available or revenue; a leading "-" sorts descending
	Sort string `form:"sort"`
}

// ToFilter converts the query into an inventory filter.
func (q InventoryQuery) ToFilter() inventory.ListFilter {
	f := inventory.ListFilter{ActiveOnly: q.ActiveOnly, SortBy: q.Sort}
	if q.Type != "" {
		t := item.ItemType(q.Type)
		f.Type = &t
	}
	return f
}

// InventoryListResponse wraps enriched item views.
type InventoryListResponse struct {
	Items []reconcile.EnrichedItemView `json:"items"`
	Count int                          `json:"count"`
}

// NewInventoryListResponse creates the list response. Items is never null.
func NewInventoryListResponse(views []reconcile.EnrichedItemView) InventoryListResponse {
	if views == nil {
		views = []reconcile.EnrichedItemView{}
	}
	return InventoryListResponse{Items: views, Count: len(views)}
}

// DataQualityResponse lists the issues of the last full reconciliation.
type DataQualityResponse struct {
	Issues []reconcile.Issue           `json:"issues"`
	Counts map[reconcile.IssueKind]int `json:"counts"`
}

// NewDataQualityResponse groups issue counts by kind.
func NewDataQualityResponse(issues []reconcile.Issue) DataQualityResponse {
	if issues == nil {
		issues = []reconcile.Issue{}
	}
	counts := make(map[reconcile.IssueKind]int)
	for _, is := range issues {
		counts[is.Kind]++
	}
	return DataQualityResponse{Issues: issues, Counts: counts}
}
