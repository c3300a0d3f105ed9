package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/internal/domain"
	"stockview/internal/domain/reconcile"
)

func TestViewCache_StoreAndLoad(t *testing.T) {
	c := NewViewCache()

	_, gen, ok := c.Load()
	require.False(t, ok)

	res := &reconcile.Result{}
	assert.True(t, c.Store(gen, res))

	got, gen2, ok := c.Load()
	require.True(t, ok)
	assert.Same(t, res, got)
	assert.Equal(t, gen, gen2)

	stats := c.GetStats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.True(t, stats.Cached)
}

func TestViewCache_InvalidateDropsResult(t *testing.T) {
	c := NewViewCache()
	_, gen, _ := c.Load()
	require.True(t, c.Store(gen, &reconcile.Result{}))

	c.NotifyChange(context.Background(), domain.ChangeScope{Kind: domain.ChangeDeliveryNote, Action: "confirmed"})

	_, gen2, ok := c.Load()
	assert.False(t, ok)
	assert.Equal(t, gen+1, gen2)
}

func TestViewCache_StaleStoreIsRejected(t *testing.T) {
	c := NewViewCache()
	_, gen, _ := c.Load()

	// a write lands while the run is in flight
	c.Invalidate(context.Background(), domain.ChangeScope{Kind: domain.ChangeItem})

	assert.False(t, c.Store(gen, &reconcile.Result{}))
	_, _, ok := c.Load()
	assert.False(t, ok)
}

func TestViewCache_Listeners(t *testing.T) {
	c := NewViewCache()

	var seen []domain.ChangeKind
	c.OnInvalidation(func(_ context.Context, scope domain.ChangeScope) {
		panic("boom")
	})
	c.OnInvalidation(func(_ context.Context, scope domain.ChangeScope) {
		seen = append(seen, scope.Kind)
	})

	assert.NotPanics(t, func() {
		c.Invalidate(context.Background(), domain.ChangeScope{Kind: domain.ChangeSupplierRate})
	})
	assert.Equal(t, []domain.ChangeKind{domain.ChangeSupplierRate}, seen)
	assert.Equal(t, uint64(1), c.GetStats().Invalidations)
}
