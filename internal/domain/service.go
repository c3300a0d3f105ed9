package domain

import (
	"context"
	"fmt"

	"stockview/internal/core/apperror"
	"stockview/internal/core/entity"
	"stockview/internal/core/id"
	"stockview/internal/core/tx"
	"stockview/pkg/logger"
)

// Identifiable is implemented by catalog entities served by CatalogService.
type Identifiable interface {
	entity.Validatable
	GetID() id.ID
}

// CatalogService provides business logic for catalog entities.
type CatalogService[T Identifiable] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	notifier  ChangeNotifier
	hooks     *HookRegistry[T]

	// entityName for error messages
	entityName string
	kind       ChangeKind
	// scopeOf lists the items affected by a write; nil means none.
	scopeOf func(T) []id.ID
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T Identifiable] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	Notifier   ChangeNotifier
	EntityName string
	Kind       ChangeKind
	ScopeOf    func(T) []id.ID
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T Identifiable](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = NopNotifier
	}
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		notifier:   notifier,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
		kind:       cfg.Kind,
		scopeOf:    cfg.ScopeOf,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// TxManager exposes the transaction manager to embedding services.
func (s *CatalogService[T]) TxManager() tx.Manager {
	return s.txManager
}

// Repo exposes the repository to embedding services.
func (s *CatalogService[T]) Repo() CatalogRepository[T] {
	return s.repo
}

func (s *CatalogService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T]) normalizeGetErr(err error, idOrCode any) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, idOrCode)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", idOrCode)
}

// Create creates a new catalog entity.
func (s *CatalogService[T]) Create(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeCreate, entity); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, entity); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterCreate, entity); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", s.entityName, "error", err)
	}
	s.notify(ctx, "created", entity)
	return nil
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	entity, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return entity, s.normalizeGetErr(err, entityID.String())
	}
	return entity, nil
}

// GetByCode retrieves entity by code.
func (s *CatalogService[T]) GetByCode(ctx context.Context, code string) (T, error) {
	entity, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return entity, s.normalizeGetErr(err, code)
	}
	return entity, nil
}

// Update updates an existing entity.
func (s *CatalogService[T]) Update(ctx context.Context, entity T) error {
	return s.UpdateAs(ctx, "updated", entity)
}

// UpdateAs updates an existing entity and reports the change under action.
func (s *CatalogService[T]) UpdateAs(ctx context.Context, action string, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeUpdate, entity); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, entity); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterUpdate, entity); err != nil {
		logger.Warn(ctx, "after-update hook failed", "entity", s.entityName, "error", err)
	}
	s.notify(ctx, action, entity)
	return nil
}

// List retrieves entities with filtering.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, filter)
}

func (s *CatalogService[T]) notify(ctx context.Context, action string, entity T) {
	scope := ChangeScope{
		Kind:     s.kind,
		Action:   action,
		RecordID: entity.GetID(),
	}
	if s.scopeOf != nil {
		scope.ItemIDs = s.scopeOf(entity)
	}
	s.notifier.NotifyChange(ctx, scope)
}
