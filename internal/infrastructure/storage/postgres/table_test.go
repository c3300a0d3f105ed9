package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/internal/core/apperror"
	"stockview/internal/domain/catalogs/item"
)

func newItemsTable() *Table[item.InventoryItem] {
	return NewTable[item.InventoryItem](nil, "items", "inventory item", map[string]string{
		"":     InsertionOrder,
		"code": "code",
		"name": "lower(name)",
	})
}

func TestTable_ParseOrderBy(t *testing.T) {
	tbl := newItemsTable()

	tests := []struct {
		in   string
		want string
	}{
		{"", "seq ASC"},
		{"code", "code ASC"},
		{"-code", "code DESC"},
		{"+name", "lower(name) ASC"},
		{" -name ", "lower(name) DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := tbl.parseOrderBy(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"-", "price", "code; DROP TABLE items"} {
		_, err := tbl.parseOrderBy(bad)
		assert.True(t, apperror.IsValidation(err), bad)
	}
}

func TestTable_SelectUsesMappedColumns(t *testing.T) {
	sql, _, err := newItemsTable().Select().ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT id, version, code, name, type")
	assert.Contains(t, sql, "FROM items")
}

func TestTable_MapWriteErr(t *testing.T) {
	tbl := newItemsTable()

	dup := tbl.mapWriteErr(&pgconn.PgError{Code: "23505", ConstraintName: "items_code_key", Detail: "Key (code)=(CAM) already exists."})
	appErr, ok := apperror.AsAppError(dup)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
	assert.Equal(t, "code", appErr.Details["field"])

	other := tbl.mapWriteErr(errors.New("connection reset"))
	assert.False(t, apperror.IsAppError(other))
	assert.Contains(t, other.Error(), "write items")
}
