package item

import (
	"context"
	"fmt"
	"time"

	"stockview/internal/core/apperror"
	"stockview/internal/core/id"
	"stockview/internal/core/tx"
	"stockview/internal/domain"
	"stockview/internal/domain/catalogs/category"
	"stockview/pkg/numerator"
)

// CategoryLookup resolves category references.
type CategoryLookup interface {
	GetByID(ctx context.Context, id id.ID) (*category.Category, error)
}

// Service provides business logic for the item catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*InventoryItem]
	repo       Repository
	categories CategoryLookup
	numerator  numerator.Generator
}

// NewService creates a new item service.
func NewService(
	repo Repository,
	categories CategoryLookup,
	numerator numerator.Generator,
	txManager tx.Manager,
	notifier domain.ChangeNotifier,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*InventoryItem]{
		Repo:       repo,
		TxManager:  txManager,
		Notifier:   notifier,
		EntityName: "inventory item",
		Kind:       domain.ChangeItem,
		ScopeOf:    func(i *InventoryItem) []id.ID { return []id.ID{i.ID} },
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		categories:     categories,
		numerator:      numerator,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)

	return svc
}

// prepareForCreate handles uniqueness and reference checks.
func (s *Service) prepareForCreate(ctx context.Context, it *InventoryItem) error {
	exists, err := s.repo.ExistsByCode(ctx, it.Code)
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("inventory item", "code", it.Code)
	}

	return s.checkCategory(ctx, it)
}

// prepareForUpdate keeps code unique and the category reference valid.
func (s *Service) prepareForUpdate(ctx context.Context, it *InventoryItem) error {
	existing, err := s.repo.GetByCode(ctx, it.Code)
	if err == nil && existing.ID != it.ID {
		return apperror.NewDuplicate("inventory item", "code", it.Code)
	}
	if err != nil && !apperror.IsNotFound(err) {
		return fmt.Errorf("check code: %w", err)
	}
	return s.checkCategory(ctx, it)
}

func (s *Service) checkCategory(ctx context.Context, it *InventoryItem) error {
	if it.CategoryID == nil || s.categories == nil {
		return nil
	}
	if _, err := s.categories.GetByID(ctx, *it.CategoryID); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewValidation("category does not exist").
				WithDetail("field", "categoryId").
				WithDetail("value", it.CategoryID.String())
		}
		return fmt.Errorf("check category: %w", err)
	}
	return nil
}

// Create validates and stores a new item. A missing code is generated.
func (s *Service) Create(ctx context.Context, it *InventoryItem) error {
	if it.Code == "" && s.numerator != nil {
		cfg := numerator.Config{Prefix: "ITM", PadWidth: 5, ResetPeriod: "never"}
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		it.Code = code
	}
	return s.CatalogService.Create(ctx, it)
}

// Deactivate soft-deletes an item. Deactivating twice is a no-op.
func (s *Service) Deactivate(ctx context.Context, itemID id.ID) (*InventoryItem, error) {
	it, err := s.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !it.Active {
		return it, nil
	}
	it.Deactivate()
	if err := s.UpdateAs(ctx, "deactivated", it); err != nil {
		return nil, err
	}
	return it, nil
}

// List retrieves items filtered by type and active flag.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*InventoryItem], error) {
	return s.repo.ListItems(ctx, filter)
}
