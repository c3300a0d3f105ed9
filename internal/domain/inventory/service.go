// Package inventory serves enriched item views to callers.
package inventory

import (
	"context"
	"fmt"

	"stockview/internal/core/apperror"
	"stockview/internal/core/id"
	"stockview/internal/domain"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/reconcile"
	"stockview/internal/domain/store"
	"stockview/pkg/logger"
)

// ResultCache keeps the full, unfiltered result between writes.
type ResultCache interface {
	Load() (*reconcile.Result, uint64, bool)
	Store(generation uint64, res *reconcile.Result) bool
	Invalidate(ctx context.Context, scope domain.ChangeScope)
}

// ListFilter narrows item listings.
type ListFilter struct {
	Type       *item.ItemType
	ActiveOnly bool
	// SortBy is "code", "name", "available" or "revenue", "-" prefixed for descending
	SortBy string
}

// Service answers view requests. Each request reconciles one snapshot,
// unless a cached result is still valid.
type Service struct {
	source store.Source
	engine *reconcile.Engine
	cache  ResultCache
}

// NewService creates the read service. cache may be nil.
func NewService(source store.Source, engine *reconcile.Engine, cache ResultCache) *Service {
	return &Service{source: source, engine: engine, cache: cache}
}

// ListEnrichedItems returns the views of the items matching filter,
// in catalog order unless a sort is requested.
func (s *Service) ListEnrichedItems(ctx context.Context, filter ListFilter) ([]reconcile.EnrichedItemView, error) {
	sortKey, err := reconcile.ParseSortKey(filter.SortBy)
	if err != nil {
		return nil, err
	}
	if filter.Type != nil && !filter.Type.IsValid() {
		return nil, apperror.NewValidation("invalid item type").
			WithDetail("field", "type").
			WithDetail("value", string(*filter.Type))
	}

	opts := reconcile.RunOptions{Type: filter.Type, ActiveOnly: filter.ActiveOnly, Sort: sortKey}

	if s.cache == nil {
		res, err := s.run(ctx, opts)
		if err != nil {
			return nil, err
		}
		return res.Items, nil
	}

	full, err := s.full(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]reconcile.EnrichedItemView, 0, len(full.Items))
	for _, v := range full.Items {
		if opts.Type != nil && v.Type != *opts.Type {
			continue
		}
		if opts.ActiveOnly && !v.Active {
			continue
		}
		views = append(views, v.Clone())
	}
	reconcile.SortViews(views, sortKey)
	return views, nil
}

// GetEnrichedItem returns the view of one item.
func (s *Service) GetEnrichedItem(ctx context.Context, itemID id.ID) (reconcile.EnrichedItemView, error) {
	var res *reconcile.Result
	var err error
	if s.cache == nil {
		res, err = s.run(ctx, reconcile.RunOptions{ItemIDs: []id.ID{itemID}})
	} else {
		res, err = s.full(ctx)
	}
	if err != nil {
		return reconcile.EnrichedItemView{}, err
	}

	v, ok := res.Find(itemID)
	if !ok {
		return reconcile.EnrichedItemView{}, apperror.NewNotFound("inventory item", itemID.String())
	}
	return v.Clone(), nil
}

// DataQuality returns the issues found reconciling the whole catalog.
func (s *Service) DataQuality(ctx context.Context) ([]reconcile.Issue, error) {
	var res *reconcile.Result
	var err error
	if s.cache == nil {
		res, err = s.run(ctx, reconcile.RunOptions{})
	} else {
		res, err = s.full(ctx)
	}
	if err != nil {
		return nil, err
	}
	return append([]reconcile.Issue(nil), res.Issues...), nil
}

// Reconcile runs the engine over the whole catalog, bypassing the cache.
func (s *Service) Reconcile(ctx context.Context) (*reconcile.Result, error) {
	return s.run(ctx, reconcile.RunOptions{})
}

// NotifyChange implements domain.ChangeNotifier. Any committed write drops
// the cached result.
func (s *Service) NotifyChange(ctx context.Context, scope domain.ChangeScope) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, scope)
	}
}

func (s *Service) full(ctx context.Context) (*reconcile.Result, error) {
	// The generation is read before the snapshot is taken.
	cached, generation, ok := s.cache.Load()
	if ok {
		return cached, nil
	}

	res, err := s.run(ctx, reconcile.RunOptions{})
	if err != nil {
		return nil, err
	}
	if !s.cache.Store(generation, res) {
		logger.Debug(ctx, "discarded stale reconciliation result", "generation", generation)
	}
	return res, nil
}

func (s *Service) run(ctx context.Context, opts reconcile.RunOptions) (*reconcile.Result, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("take snapshot: %w", err)
	}
	return s.engine.Run(ctx, snap, opts)
}

var _ domain.ChangeNotifier = (*Service)(nil)
