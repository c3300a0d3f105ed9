package item_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/internal/app/apptest"
	"stockview/internal/core/apperror"
	"stockview/internal/core/id"
	"stockview/internal/domain"
	"stockview/internal/domain/catalogs/category"
	"stockview/internal/domain/catalogs/item"
)

func TestService_CreateGeneratesCodes(t *testing.T) {
	env := apptest.New(t, false)

	first := env.Product(t, "Speaker", 1)
	second := env.Product(t, "Mixer", 1)

	assert.Equal(t, "ITM-00001", first.Code)
	assert.Equal(t, "ITM-00002", second.Code)
	assert.Equal(t, 1, first.Version)

	scope := env.Changes.Last(t)
	assert.Equal(t, domain.ChangeItem, scope.Kind)
	assert.Equal(t, "created", scope.Action)
	assert.Equal(t, []id.ID{second.ID}, scope.ItemIDs)
}

func TestService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)
	env.Product(t, "Speaker", 1)

	tests := []struct {
		name  string
		build func() *item.InventoryItem
		check func(error) bool
	}{
		{
			name:  "duplicate code",
			build: func() *item.InventoryItem { return item.NewInventoryItem("ITM-00001", "Copy", item.TypeProduct) },
			check: func(err error) bool { return apperror.HasCode(err, apperror.CodeDuplicate) },
		},
		{
			name: "stockable service",
			build: func() *item.InventoryItem {
				it := item.NewInventoryItem("SRV", "Setup", item.TypeService)
				it.Stockable = true
				return it
			},
			check: apperror.IsValidation,
		},
		{
			name: "unknown category",
			build: func() *item.InventoryItem {
				it := item.NewInventoryItem("CAT", "Orphan", item.TypeProduct)
				missing := id.New()
				it.CategoryID = &missing
				return it
			},
			check: apperror.IsValidation,
		},
		{
			name:  "invalid type",
			build: func() *item.InventoryItem { return item.NewInventoryItem("BAD", "Bad", item.ItemType("gadget")) },
			check: apperror.IsValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.Services.Items.Create(ctx, tt.build())
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
}

func TestService_CreateWithCategory(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)

	audio := category.NewCategory("AUDIO", "Audio")
	require.NoError(t, env.Services.Categories.Create(ctx, audio))

	it := item.NewInventoryItem("", "Speaker", item.TypeProduct)
	it.CategoryID = &audio.ID
	require.NoError(t, env.Services.Items.Create(ctx, it))

	stored, err := env.Services.Items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CategoryID)
	assert.Equal(t, audio.ID, *stored.CategoryID)
}

func TestService_Deactivate(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 1)
	env.Changes.Reset()

	got, err := env.Services.Items.Deactivate(ctx, speaker.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, "deactivated", env.Changes.Last(t).Action)

	// A second deactivation changes nothing.
	_, err = env.Services.Items.Deactivate(ctx, speaker.ID)
	require.NoError(t, err)
	assert.Len(t, env.Changes.Scopes(), 1)

	_, err = env.Services.Items.Deactivate(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err), "got %v", err)

	res, err := env.Services.Items.List(ctx, item.ListFilter{ListFilter: domain.DefaultListFilter(), ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestService_UpdateChecksVersion(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 1)

	edit, err := env.Services.Items.GetByID(ctx, speaker.ID)
	require.NoError(t, err)
	edit.Name = "Line array"
	require.NoError(t, env.Services.Items.Update(ctx, edit))
	assert.Equal(t, 2, edit.Version)

	speaker.Name = "Stale"
	err = env.Services.Items.Update(ctx, speaker)
	assert.True(t, apperror.IsConcurrentModification(err), "got %v", err)
}

func TestService_ListByType(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)
	env.Product(t, "Speaker", 1)
	setup := env.Service(t, "Setup")

	services := item.TypeService
	res, err := env.Services.Items.List(ctx, item.ListFilter{ListFilter: domain.DefaultListFilter(), Type: &services})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, setup.ID, res.Items[0].ID)
	assert.False(t, res.Items[0].Stockable)
}
