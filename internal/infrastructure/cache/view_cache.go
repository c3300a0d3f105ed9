// Package cache provides the enriched view cache and its invalidation feeds.
package cache

import (
	"context"
	"sync"

	"stockview/internal/domain"
	"stockview/internal/domain/reconcile"
	"stockview/pkg/logger"
)

// ViewCache holds the last full reconciliation result.
//
// Every invalidation bumps the generation. A result may only be stored under
// the generation that was current before its snapshot was taken, so a run
// that raced with a write never overwrites the invalidation.
type ViewCache struct {
	mu         sync.RWMutex
	generation uint64
	result     *reconcile.Result

	hits          uint64
	misses        uint64
	invalidations uint64

	// Listeners for cache invalidation
	listeners   []InvalidationListener
	listenersMu sync.RWMutex
}

// InvalidationListener is called after the cache was dropped.
type InvalidationListener func(ctx context.Context, scope domain.ChangeScope)

// NewViewCache creates an empty cache.
func NewViewCache() *ViewCache {
	return &ViewCache{}
}

// Load returns the cached result, if any, and the current generation.
func (c *ViewCache) Load() (*reconcile.Result, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result == nil {
		c.misses++
		return nil, c.generation, false
	}
	c.hits++
	return c.result, c.generation, true
}

// Store saves res if no invalidation happened since generation was read.
func (c *ViewCache) Store(generation uint64, res *reconcile.Result) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return false
	}
	c.result = res
	return true
}

// Invalidate drops the cached result. The whole result goes, whatever the
// scope: project-level matching lets one note move every item of its project.
func (c *ViewCache) Invalidate(ctx context.Context, scope domain.ChangeScope) {
	c.mu.Lock()
	c.generation++
	c.result = nil
	c.invalidations++
	c.mu.Unlock()

	logger.Debug(ctx, "view cache invalidated",
		"kind", scope.Kind,
		"action", scope.Action,
		"record_id", scope.RecordID)

	// Notify registered listeners with panic recovery.
	c.listenersMu.RLock()
	for _, listener := range c.listeners {
		func(l InvalidationListener) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error(ctx, "listener panic recovered", "kind", scope.Kind, "panic", r)
				}
			}()
			l(ctx, scope)
		}(listener)
	}
	c.listenersMu.RUnlock()
}

// NotifyChange implements domain.ChangeNotifier.
func (c *ViewCache) NotifyChange(ctx context.Context, scope domain.ChangeScope) {
	c.Invalidate(ctx, scope)
}

// OnInvalidation registers a callback for cache invalidation events.
func (c *ViewCache) OnInvalidation(listener InvalidationListener) {
	c.listenersMu.Lock()
	c.listeners = append(c.listeners, listener)
	c.listenersMu.Unlock()
}

// CacheStats reports cache usage.
type CacheStats struct {
	Generation    uint64 `json:"generation"`
	Cached        bool   `json:"cached"`
	Hits          uint64 `json:"hits"`
	Misses        uint64 `json:"misses"`
	Invalidations uint64 `json:"invalidations"`
}

// GetStats returns current cache statistics.
func (c *ViewCache) GetStats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return CacheStats{
		Generation:    c.generation,
		Cached:        c.result != nil,
		Hits:          c.hits,
		Misses:        c.misses,
		Invalidations: c.invalidations,
	}
}

var _ domain.ChangeNotifier = (*ViewCache)(nil)
