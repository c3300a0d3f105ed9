package demo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/internal/app/apptest"
	"stockview/internal/core/types"
	"stockview/internal/demo"
	"stockview/internal/domain/inventory"
	"stockview/internal/domain/reconcile"
)

func viewsByName(t *testing.T, views []reconcile.EnrichedItemView) map[string]reconcile.EnrichedItemView {
	t.Helper()
	byName := make(map[string]reconcile.EnrichedItemView, len(views))
	for _, v := range views {
		byName[v.Name] = v
	}
	return byName
}

func TestSeed_ProducesExpectedViews(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, true)

	seeded, err := demo.Seed(ctx, env.Services)
	require.NoError(t, err)
	require.True(t, seeded)

	views, err := env.Services.Inventory.ListEnrichedItems(ctx, inventory.ListFilter{})
	require.NoError(t, err)
	require.Len(t, views, 4)
	byName := viewsByName(t, views)

	speaker := byName["Line array speaker"]
	require.NotNil(t, speaker.Stock)
	assert.Equal(t, types.NewQuantityFromInt(0), speaker.Stock.Rented)
	assert.Equal(t, types.NewQuantityFromInt(4), speaker.Stock.Committed)
	assert.Equal(t, types.NewQuantityFromInt(8), speaker.Stock.Available)
	assert.True(t, speaker.AverageCost.Equal(types.MustMoney("130")), "average cost %s", speaker.AverageCost)
	assert.Equal(t, reconcile.CostFromSupplierRates, speaker.CostSource)
	assert.Equal(t, "Audio", speaker.CategoryName)

	mixer := byName["Digital mixing console"]
	require.NotNil(t, mixer.Stock)
	assert.Equal(t, types.NewQuantityFromInt(3), mixer.Stock.Available)
	assert.Equal(t, types.NewQuantityFromInt(1), mixer.UnitsSold)
	assert.True(t, mixer.Revenue.Equal(types.MustMoney("1450")), "revenue %s", mixer.Revenue)

	projector := byName["Laser projector 10k"]
	require.NotNil(t, projector.Stock)
	assert.Equal(t, types.NewQuantityFromInt(2), projector.Stock.Rented)
	assert.Equal(t, types.NewQuantityFromInt(2), projector.Stock.Committed)
	assert.Equal(t, types.NewQuantityFromInt(0), projector.Stock.Available)
	assert.True(t, projector.Stock.BelowMinimum)

	setup := byName["On-site setup"]
	assert.Nil(t, setup.Stock)
	assert.Equal(t, types.NewQuantityFromInt(2), setup.UnitsSold)
	assert.True(t, setup.Revenue.Equal(types.MustMoney("160")), "revenue %s", setup.Revenue)

	issues, err := env.Services.Inventory.DataQuality(ctx)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestSeed_SkipsPopulatedCatalog(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)

	seeded, err := demo.Seed(ctx, env.Services)
	require.NoError(t, err)
	require.True(t, seeded)

	seeded, err = demo.Seed(ctx, env.Services)
	require.NoError(t, err)
	assert.False(t, seeded)
}
