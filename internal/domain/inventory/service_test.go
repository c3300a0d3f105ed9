package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/internal/app/apptest"
	"stockview/internal/core/apperror"
	"stockview/internal/core/id"
	"stockview/internal/core/types"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/documents/delivery_note"
	"stockview/internal/domain/inventory"
	"stockview/internal/domain/reconcile"
)

func rentOut(t *testing.T, env *apptest.Env, itemID id.ID, qty int64) *delivery_note.DeliveryNote {
	t.Helper()
	ctx := context.Background()
	note := delivery_note.NewDeliveryNote(id.New(), delivery_note.DirectionOutbound)
	require.NoError(t, note.SetLines([]delivery_note.LineInput{
		{ItemID: itemID, Quantity: types.NewQuantityFromInt(qty)},
	}))
	require.NoError(t, env.Services.DeliveryNotes.Create(ctx, note))
	_, err := env.Services.DeliveryNotes.Confirm(ctx, note.ID)
	require.NoError(t, err)
	return note
}

func TestService_GetEnrichedItem(t *testing.T) {
	for _, cached := range []bool{false, true} {
		t.Run(map[bool]string{false: "direct", true: "cached"}[cached], func(t *testing.T) {
			ctx := context.Background()
			env := apptest.New(t, cached)
			speaker := env.Product(t, "Speaker", 10)
			setup := env.Service(t, "Setup")
			rentOut(t, env, speaker.ID, 3)

			v, err := env.Services.Inventory.GetEnrichedItem(ctx, speaker.ID)
			require.NoError(t, err)
			require.NotNil(t, v.Stock)
			assert.Equal(t, types.NewQuantityFromInt(3), v.Stock.Rented)
			assert.Equal(t, types.NewQuantityFromInt(7), v.Stock.Available)

			sv, err := env.Services.Inventory.GetEnrichedItem(ctx, setup.ID)
			require.NoError(t, err)
			assert.Nil(t, sv.Stock)

			_, err = env.Services.Inventory.GetEnrichedItem(ctx, id.New())
			assert.True(t, apperror.IsNotFound(err), "got %v", err)
		})
	}
}

func TestService_CacheInvalidatedByWrites(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, true)
	speaker := env.Product(t, "Speaker", 10)

	_, err := env.Services.Inventory.ListEnrichedItems(ctx, inventory.ListFilter{})
	require.NoError(t, err)
	_, err = env.Services.Inventory.ListEnrichedItems(ctx, inventory.ListFilter{})
	require.NoError(t, err)

	stats := env.Services.Cache.GetStats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.True(t, stats.Cached)

	rentOut(t, env, speaker.ID, 4)
	assert.False(t, env.Services.Cache.GetStats().Cached)

	views, err := env.Services.Inventory.ListEnrichedItems(ctx, inventory.ListFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, types.NewQuantityFromInt(6), views[0].Stock.Available)
}

func TestService_CachedViewsAreCopies(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, true)
	speaker := env.Product(t, "Speaker", 10)

	views, err := env.Services.Inventory.ListEnrichedItems(ctx, inventory.ListFilter{})
	require.NoError(t, err)
	views[0].Stock.Available = types.NewQuantityFromInt(99)

	v, err := env.Services.Inventory.GetEnrichedItem(ctx, speaker.ID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromInt(10), v.Stock.Available)
}

func TestService_ListFilters(t *testing.T) {
	for _, cached := range []bool{false, true} {
		ctx := context.Background()
		env := apptest.New(t, cached)
		env.Product(t, "Speaker", 5)
		mixer := env.Product(t, "Mixer", 1)
		env.Service(t, "Setup")
		_, err := env.Services.Items.Deactivate(ctx, mixer.ID)
		require.NoError(t, err)

		products := item.TypeProduct
		views, err := env.Services.Inventory.ListEnrichedItems(ctx, inventory.ListFilter{Type: &products, ActiveOnly: true})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "Speaker", views[0].Name)

		views, err = env.Services.Inventory.ListEnrichedItems(ctx, inventory.ListFilter{SortBy: "-available"})
		require.NoError(t, err)
		require.Len(t, views, 3)
		assert.Equal(t, "Speaker", views[0].Name)
		assert.Nil(t, views[2].Stock)

		_, err = env.Services.Inventory.ListEnrichedItems(ctx, inventory.ListFilter{SortBy: "weight"})
		assert.True(t, apperror.IsValidation(err), "got %v", err)

		bad := item.ItemType("gadget")
		_, err = env.Services.Inventory.ListEnrichedItems(ctx, inventory.ListFilter{Type: &bad})
		assert.True(t, apperror.IsValidation(err), "got %v", err)
	}
}

func TestService_DataQuality(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 2)
	rentOut(t, env, speaker.ID, 5)

	issues, err := env.Services.Inventory.DataQuality(ctx)
	require.NoError(t, err)
	kinds := make([]reconcile.IssueKind, 0, len(issues))
	for _, is := range issues {
		kinds = append(kinds, is.Kind)
	}
	assert.Contains(t, kinds, reconcile.IssueNegativeAvailable)
}
