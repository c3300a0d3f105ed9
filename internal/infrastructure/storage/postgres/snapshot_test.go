package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/documents/delivery_note"
)

func TestSelectAllQuery_OrderBySeq(t *testing.T) {
	sql, args, err := selectAllQuery(ExtractDBColumns[item.InventoryItem](), "items", InsertionOrder)
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.True(t, strings.HasSuffix(sql, "FROM items ORDER BY seq ASC"), sql)
	assert.NotContains(t, sql, "seq,", "seq is never selected into records")
}

func TestSelectAllQuery_LinesGroupedByParent(t *testing.T) {
	sql, _, err := selectAllQuery(ExtractDBColumns[delivery_note.Line](), "delivery_note_lines", lineOrder("note_id"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(sql, "ORDER BY note_id ASC, line_no ASC"), sql)
}

func TestMigrations_AddSeqToOrderedTables(t *testing.T) {
	body, err := migrationFiles.ReadFile("migrations/002_insertion_order.sql")
	require.NoError(t, err)

	for _, table := range []string{"categories", "items", "supplier_rates", "sales_documents", "delivery_notes"} {
		assert.Regexp(t, `ALTER TABLE `+table+`\s+ADD COLUMN IF NOT EXISTS seq BIGINT GENERATED ALWAYS AS IDENTITY`, string(body), table)
	}
}
