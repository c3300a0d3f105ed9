package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"stockview/internal/core/apperror"
	"stockview/internal/core/id"
	"stockview/internal/core/types"
	"stockview/internal/domain/catalogs/item"
)

// CostSource tells where AverageCost came from.
type CostSource string

const (
	CostFromSupplierRates CostSource = "supplier_rates"
	CostFromCatalog       CostSource = "catalog"
)

// StockPosition is the derived stock of a stockable item.
type StockPosition struct {
	Warehouse types.Quantity `json:"warehouse"`
	Rented    types.Quantity `json:"rented"`
	Committed types.Quantity `json:"committed"`

	// Available is warehouse - rented - committed, never below zero
	Available types.Quantity `json:"available"`

	// Shortfall is how far below zero the available quantity fell before clamping
	Shortfall types.Quantity `json:"shortfall"`

	MinStock     types.Quantity `json:"minStock"`
	BelowMinimum bool           `json:"belowMinimum"`
}

// EnrichedItemView is the read model of one inventory item.
// Stock is nil for non-stockable items: their stock figures do not apply.
type EnrichedItemView struct {
	ID           id.ID         `json:"id"`
	Code         string        `json:"code"`
	Name         string        `json:"name"`
	Type         item.ItemType `json:"type"`
	CategoryID   *id.ID        `json:"categoryId"`
	CategoryName string        `json:"categoryName"`
	Stockable    bool          `json:"stockable"`
	Active       bool          `json:"active"`

	BasePrice types.Money `json:"basePrice"`
	CostPrice types.Money `json:"costPrice"`

	AverageCost       types.Money `json:"averageCost"`
	CostSource        CostSource  `json:"costSource"`
	SupplierRateCount int         `json:"supplierRateCount"`

	UnitsSold types.Quantity `json:"unitsSold"`
	Revenue   types.Money    `json:"revenue"`

	Stock *StockPosition `json:"stock"`
}

// Aggregates bundles the component outputs the view builder joins.
type Aggregates struct {
	Stock StockTotals
	Sales map[id.ID]SalesMetrics
	Cost  map[id.ID]CostStat
}

// BuildViews joins each in-scope item with its category name and aggregates.
// Output follows scope order, which is catalog order.
func BuildViews(ref *RefData, scope Scope, agg Aggregates) ([]EnrichedItemView, []Issue) {
	views := make([]EnrichedItemView, 0, len(scope.Items))
	var issues []Issue

	for _, it := range scope.Items {
		v := EnrichedItemView{
			ID:         it.ID,
			Code:       it.Code,
			Name:       it.Name,
			Type:       it.Type,
			CategoryID: id.ClonePtr(it.CategoryID),
			Stockable:  it.Stockable,
			Active:     it.Active,
			BasePrice:  it.BasePrice,
			CostPrice:  it.CostPrice,
		}

		if it.CategoryID != nil {
			name, ok := ref.CategoryName(*it.CategoryID)
			if ok {
				v.CategoryName = name
			} else {
				itemID, catID := it.ID, *it.CategoryID
				issues = append(issues, Issue{
					Kind:     IssueMissingCategory,
					ItemID:   &itemID,
					RecordID: &catID,
					Message:  "item references unknown category",
				})
			}
		}

		if c, ok := agg.Cost[it.ID]; ok && c.Rates > 0 {
			v.AverageCost = c.Average
			v.CostSource = CostFromSupplierRates
			v.SupplierRateCount = c.Rates
		} else {
			v.AverageCost = it.CostPrice
			v.CostSource = CostFromCatalog
		}

		sales := agg.Sales[it.ID]
		v.UnitsSold = sales.Units
		v.Revenue = sales.Revenue

		if it.Stockable {
			pos, posIssues := stockPosition(it, agg.Stock.Rented[it.ID], agg.Stock.Committed[it.ID])
			v.Stock = &pos
			issues = append(issues, posIssues...)
		}

		views = append(views, v)
	}

	return views, issues
}

func stockPosition(it *item.InventoryItem, rented, committed types.Quantity) (StockPosition, []Issue) {
	pos := StockPosition{
		Warehouse: it.WarehouseQty,
		Rented:    rented,
		Committed: committed,
		MinStock:  it.MinStock,
	}

	var issues []Issue
	available, ok := it.WarehouseQty.CheckedSub(rented)
	if ok {
		available, ok = available.CheckedSub(committed)
	}
	if !ok {
		issues = append(issues, quantityOverflow(it.ID, it.Code, "available"))
	}

	if available.IsNegative() {
		pos.Shortfall = available.Neg()
		available = 0
		itemID := it.ID
		issues = append(issues, Issue{
			Kind:    IssueNegativeAvailable,
			ItemID:  &itemID,
			Message: fmt.Sprintf("available stock of %s is below zero", it.Code),
			Detail: map[string]any{
				"warehouse": it.WarehouseQty.String(),
				"rented":    rented.String(),
				"committed": committed.String(),
				"shortfall": pos.Shortfall.String(),
			},
		})
	}
	pos.Available = available
	pos.BelowMinimum = available < it.MinStock

	return pos, issues
}

// SortKey orders views. The zero value keeps catalog order.
type SortKey struct {
	Field string
	Desc  bool
}

// ParseSortKey parses "code", "-name", "available", "-revenue" and the like.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortKey{}, nil
	}
	key := SortKey{Field: s}
	if strings.HasPrefix(s, "-") {
		key = SortKey{Field: s[1:], Desc: true}
	}
	switch key.Field {
	case "code", "name", "available", "revenue":
		return key, nil
	}
	return SortKey{}, apperror.NewValidation("unknown sort field").
		WithDetail("field", "sort").
		WithDetail("value", s)
}

// SortViews sorts views in place. The sort is stable, so ties keep catalog
// order. By available, items without stock figures always come last.
func SortViews(views []EnrichedItemView, key SortKey) {
	if key.Field == "" {
		return
	}

	cmp := func(a, b *EnrichedItemView) int {
		switch key.Field {
		case "code":
			return strings.Compare(a.Code, b.Code)
		case "name":
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case "revenue":
			return a.Revenue.Cmp(b.Revenue)
		case "available":
			if a.Stock == nil || b.Stock == nil {
				return 0
			}
			switch {
			case a.Stock.Available < b.Stock.Available:
				return -1
			case a.Stock.Available > b.Stock.Available:
				return 1
			}
		}
		return 0
	}

	sort.SliceStable(views, func(i, j int) bool {
		a, b := &views[i], &views[j]
		if key.Field == "available" && (a.Stock == nil) != (b.Stock == nil) {
			return b.Stock == nil
		}
		c := cmp(a, b)
		if key.Desc {
			return c > 0
		}
		return c < 0
	})
}

// Clone returns a copy that shares no memory with v.
func (v EnrichedItemView) Clone() EnrichedItemView {
	v.CategoryID = id.ClonePtr(v.CategoryID)
	if v.Stock != nil {
		pos := *v.Stock
		v.Stock = &pos
	}
	return v
}
