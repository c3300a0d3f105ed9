package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/internal/core/apperror"
	"stockview/internal/core/id"
	"stockview/internal/core/types"
	"stockview/internal/domain"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/documents/delivery_note"
)

func TestTxManager_RollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	items := NewItemRepo(s)
	notes := NewDeliveryNoteRepo(s)
	txm := NewTxManager(s)

	kept := item.NewInventoryItem("KEEP", "Kept", item.TypeProduct)
	require.NoError(t, items.Create(ctx, kept))

	boom := errors.New("boom")
	err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, items.Create(ctx, item.NewInventoryItem("GONE", "Gone", item.TypeProduct)))

		note := delivery_note.NewDeliveryNote(id.New(), delivery_note.DirectionOutbound)
		require.NoError(t, notes.Create(ctx, note))

		k, err := items.GetByID(ctx, kept.ID)
		require.NoError(t, err)
		k.Name = "Renamed"
		require.NoError(t, items.Update(ctx, k))
		return boom
	})
	require.ErrorIs(t, err, boom)

	res, err := items.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Kept", res.Items[0].Name)
	assert.Equal(t, 1, res.Items[0].Version)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.DeliveryNotes)
}

func TestSequence_RollsBackWithTransaction(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seq := NewSequence(s)
	txm := NewTxManager(s)

	v, err := seq.Advance(ctx, "DN_2026", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	boom := errors.New("boom")
	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		v, err := seq.Advance(ctx, "DN_2026", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), v)
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, err = seq.Advance(ctx, "DN_2026", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	require.NoError(t, seq.Set(ctx, "DN_2026", 40))
	v, err = seq.Advance(ctx, "DN_2026", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(50), v)

	err = txm.ReadOnly(ctx, func(ctx context.Context) error {
		_, err := seq.Advance(ctx, "DN_2026", 1)
		return err
	})
	assert.Error(t, err)
}

func TestTxManager_NestedReusesTransaction(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	items := NewItemRepo(s)
	txm := NewTxManager(s)

	err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return txm.RunInTransaction(ctx, func(ctx context.Context) error {
			return items.Create(ctx, item.NewInventoryItem("N", "Nested", item.TypeProduct))
		})
	})
	require.NoError(t, err)

	exists, err := items.ExistsByCode(ctx, "N")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTxManager_ReadOnlyRejectsWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	items := NewItemRepo(s)
	txm := NewTxManager(s)

	err := txm.ReadOnly(ctx, func(ctx context.Context) error {
		return items.Create(ctx, item.NewInventoryItem("RO", "Read only", item.TypeProduct))
	})
	assert.Error(t, err)
}

func TestStore_SnapshotIsIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	items := NewItemRepo(s)
	notes := NewDeliveryNoteRepo(s)

	it := item.NewInventoryItem("X", "X", item.TypeProduct)
	it.WarehouseQty = types.NewQuantityFromInt(10)
	require.NoError(t, items.Create(ctx, it))

	note := delivery_note.NewDeliveryNote(id.New(), delivery_note.DirectionOutbound)
	require.NoError(t, notes.Create(ctx, note))
	serial := "SN-1"
	require.NoError(t, notes.SaveLines(ctx, note.ID, []delivery_note.Line{{
		LineID:       id.New(),
		LineNo:       1,
		ItemID:       it.ID,
		Quantity:     types.NewQuantityFromInt(3),
		SerialNumber: &serial,
	}}))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	require.Len(t, snap.DeliveryNoteLines, 1)
	assert.Equal(t, note.ID, snap.DeliveryNoteLines[0].NoteID)
	assert.Nil(t, snap.DeliveryNotes[0].Lines)

	// later writes do not reach the snapshot
	stored, err := items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	stored.WarehouseQty = types.NewQuantityFromInt(1)
	require.NoError(t, items.Update(ctx, stored))
	require.NoError(t, notes.SaveLines(ctx, note.ID, nil))

	assert.Equal(t, types.NewQuantityFromInt(10), snap.Items[0].WarehouseQty)
	assert.Len(t, snap.DeliveryNoteLines, 1)

	// and mutating the snapshot does not reach the store
	*snap.DeliveryNoteLines[0].SerialNumber = "tampered"
	snap.Items[0].Name = "tampered"
	again, err := items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "X", again.Name)
}

func TestRepos_OptimisticLocking(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	items := NewItemRepo(s)

	it := item.NewInventoryItem("X", "X", item.TypeProduct)
	require.NoError(t, items.Create(ctx, it))

	first, err := items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	second, err := items.GetByID(ctx, it.ID)
	require.NoError(t, err)

	require.NoError(t, items.Update(ctx, first))
	assert.Equal(t, 2, first.Version)

	err = items.Update(ctx, second)
	assert.True(t, apperror.IsConcurrentModification(err))
}

func TestRepos_ItemListing(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	items := NewItemRepo(s)

	for _, code := range []string{"C", "A", "B"} {
		require.NoError(t, items.Create(ctx, item.NewInventoryItem(code, "Item "+code, item.TypeProduct)))
	}
	svc := item.NewInventoryItem("S", "Setup", item.TypeService)
	require.NoError(t, items.Create(ctx, svc))

	res, err := items.ListItems(ctx, item.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B", "S"}, itemCodes(res.Items))

	res, err = items.ListItems(ctx, item.ListFilter{ListFilter: domain.ListFilter{OrderBy: "code", Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, itemCodes(res.Items))
	assert.Equal(t, int64(4), res.TotalCount)

	svcType := item.TypeService
	res, err = items.ListItems(ctx, item.ListFilter{Type: &svcType})
	require.NoError(t, err)
	assert.Equal(t, []string{"S"}, itemCodes(res.Items))

	res, err = items.ListItems(ctx, item.ListFilter{ListFilter: domain.ListFilter{Search: "setup"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"S"}, itemCodes(res.Items))

	err = items.Create(ctx, item.NewInventoryItem("A", "Again", item.TypeProduct))
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))

	_, err = items.GetByID(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestStore_ConcurrentReadersAndWriters(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	items := NewItemRepo(s)
	txm := NewTxManager(s)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = txm.RunInTransaction(ctx, func(ctx context.Context) error {
				return items.Create(ctx, item.NewInventoryItem(string(rune('A'+i)), "Item", item.TypeProduct))
			})
		}(i)
		go func() {
			defer wg.Done()
			snap, err := s.Snapshot(ctx)
			assert.NoError(t, err)
			assert.LessOrEqual(t, len(snap.Items), 8)
		}()
	}
	wg.Wait()

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Items, 8)
}

func itemCodes(list []*item.InventoryItem) []string {
	out := make([]string, len(list))
	for i, it := range list {
		out[i] = it.Code
	}
	return out
}
