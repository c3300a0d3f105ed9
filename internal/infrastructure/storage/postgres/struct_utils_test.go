package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/internal/core/types"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/documents/delivery_note"
)

func TestExtractDBColumns_FlattensEmbedded(t *testing.T) {
	cols := ExtractDBColumns[item.InventoryItem]()

	assert.Equal(t, []string{
		"id", "version", "code", "name",
		"type", "category_id", "stockable", "base_price", "cost_price",
		"warehouse_qty", "min_stock", "active",
	}, cols)
}

func TestExtractDBColumns_SkipsIgnored(t *testing.T) {
	cols := ExtractDBColumns[delivery_note.DeliveryNote]()

	assert.Contains(t, cols, "created_at")
	assert.Contains(t, cols, "number")
	assert.Contains(t, cols, "return_of_id")
	assert.NotContains(t, cols, "lines")
	assert.NotContains(t, cols, "Lines")
}

func TestStructToMap(t *testing.T) {
	it := item.NewInventoryItem("CAM-01", "Camera", item.TypeProduct)
	it.WarehouseQty = types.NewQuantityFromInt(4)

	m := StructToMap(it)
	require.NotNil(t, m)

	assert.Equal(t, it.ID, m["id"])
	assert.Equal(t, 1, m["version"])
	assert.Equal(t, "CAM-01", m["code"])
	assert.Equal(t, item.TypeProduct, m["type"])
	assert.Equal(t, types.NewQuantityFromInt(4), m["warehouse_qty"])
	assert.Len(t, m, len(ExtractDBColumns[item.InventoryItem]()))

	var nilItem *item.InventoryItem
	assert.Nil(t, StructToMap(nilItem))
	assert.Nil(t, StructToMap(42))
}
