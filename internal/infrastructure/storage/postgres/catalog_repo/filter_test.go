package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCodeName(t *testing.T) {
	repo := NewItemRepo(nil)

	tests := []struct {
		name     string
		search   string
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "empty search adds no condition",
			search:  "",
			wantSQL: "FROM items",
		},
		{
			name:     "matches name or code",
			search:   "spk",
			wantSQL:  "FROM items WHERE (name ILIKE $1 OR code ILIKE $2)",
			wantArgs: []any{"%spk%", "%spk%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := searchCodeName(repo.Select(), tt.search).ToSql()
			require.NoError(t, err)
			assert.Contains(t, sql, tt.wantSQL)
			if tt.wantArgs == nil {
				assert.NotContains(t, sql, "WHERE")
				assert.Empty(t, args)
				return
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
