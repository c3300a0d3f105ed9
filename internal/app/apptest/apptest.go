// Package apptest builds in-memory service graphs for tests.
package apptest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"stockview/internal/app"
	"stockview/internal/core/types"
	"stockview/internal/domain"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/reconcile"
)

// Recorder collects change scopes.
type Recorder struct {
	mu     sync.Mutex
	scopes []domain.ChangeScope
}

// NotifyChange implements domain.ChangeNotifier.
func (r *Recorder) NotifyChange(_ context.Context, scope domain.ChangeScope) {
	r.mu.Lock()
	r.scopes = append(r.scopes, scope)
	r.mu.Unlock()
}

// Scopes returns the recorded scopes in order.
func (r *Recorder) Scopes() []domain.ChangeScope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ChangeScope(nil), r.scopes...)
}

// Last returns the most recent scope.
func (r *Recorder) Last(t testing.TB) domain.ChangeScope {
	t.Helper()
	scopes := r.Scopes()
	require.NotEmpty(t, scopes, "no change recorded")
	return scopes[len(scopes)-1]
}

// Reset forgets recorded scopes.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.scopes = nil
	r.mu.Unlock()
}

// Env is a memory-backed service graph.
type Env struct {
	Storage  *app.Storage
	Services *app.Services
	Changes  *Recorder
}

// New builds an Env with the default engine configuration.
func New(t testing.TB, cacheEnabled bool) *Env {
	t.Helper()
	rec := &Recorder{}
	st := app.NewMemoryStorage()
	svc, err := app.NewServices(st, app.Options{
		Engine:       reconcile.DefaultConfig(),
		CacheEnabled: cacheEnabled,
		Notifiers:    []domain.ChangeNotifier{rec},
	})
	require.NoError(t, err)
	return &Env{Storage: st, Services: svc, Changes: rec}
}

// Product creates an active stockable item with the given warehouse stock.
func (e *Env) Product(t testing.TB, name string, stock int64) *item.InventoryItem {
	t.Helper()
	it := item.NewInventoryItem("", name, item.TypeProduct)
	it.WarehouseQty = types.NewQuantityFromInt(stock)
	require.NoError(t, e.Services.Items.Create(context.Background(), it))
	return it
}

// Service creates an active non-stockable item.
func (e *Env) Service(t testing.TB, name string) *item.InventoryItem {
	t.Helper()
	it := item.NewInventoryItem("", name, item.TypeService)
	require.NoError(t, e.Services.Items.Create(context.Background(), it))
	return it
}
