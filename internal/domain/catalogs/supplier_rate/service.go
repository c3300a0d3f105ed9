package supplier_rate

import (
	"context"
	"fmt"

	"stockview/internal/core/apperror"
	"stockview/internal/core/id"
	"stockview/internal/core/tx"
	"stockview/internal/domain"
	"stockview/internal/domain/catalogs/item"
	"stockview/pkg/logger"
)

// Repository defines supplier rate persistence.
type Repository interface {
	Create(ctx context.Context, rate *SupplierRate) error
	GetByID(ctx context.Context, rateID id.ID) (*SupplierRate, error)
	Update(ctx context.Context, rate *SupplierRate) error
	ListByItem(ctx context.Context, itemID id.ID) ([]*SupplierRate, error)
}

// ItemLookup resolves item references.
type ItemLookup interface {
	GetByID(ctx context.Context, id id.ID) (*item.InventoryItem, error)
}

// Service provides business operations for supplier rates.
type Service struct {
	repo      Repository
	items     ItemLookup
	txManager tx.Manager
	notifier  domain.ChangeNotifier
}

// NewService creates a new supplier rate service.
func NewService(repo Repository, items ItemLookup, txManager tx.Manager, notifier domain.ChangeNotifier) *Service {
	if notifier == nil {
		notifier = domain.NopNotifier
	}
	return &Service{repo: repo, items: items, txManager: txManager, notifier: notifier}
}

// Create stores a new rate for an existing item.
func (s *Service) Create(ctx context.Context, rate *SupplierRate) error {
	if err := rate.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.items.GetByID(ctx, rate.ItemID); err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewValidation("item does not exist").
					WithDetail("field", "itemId").
					WithDetail("value", rate.ItemID.String())
			}
			return err
		}
		if err := s.repo.Create(ctx, rate); err != nil {
			return fmt.Errorf("create supplier rate: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "supplier rate created", "id", rate.ID, "item_id", rate.ItemID)
	s.notify(ctx, "created", rate)
	return nil
}

// GetByID retrieves a rate.
func (s *Service) GetByID(ctx context.Context, rateID id.ID) (*SupplierRate, error) {
	return s.repo.GetByID(ctx, rateID)
}

// Update changes cost, supplier name or active flag. The item reference is fixed.
func (s *Service) Update(ctx context.Context, rate *SupplierRate) error {
	if err := rate.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, rate.ID)
		if err != nil {
			return err
		}
		if existing.ItemID != rate.ItemID {
			return apperror.NewValidation("item of a supplier rate cannot change").
				WithDetail("field", "itemId")
		}
		return s.repo.Update(ctx, rate)
	})
	if err != nil {
		return err
	}

	s.notify(ctx, "updated", rate)
	return nil
}

// Deactivate takes a rate out of cost averaging.
func (s *Service) Deactivate(ctx context.Context, rateID id.ID) (*SupplierRate, error) {
	rate, err := s.repo.GetByID(ctx, rateID)
	if err != nil {
		return nil, err
	}
	if !rate.Active {
		return rate, nil
	}
	rate.Active = false

	if err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, rate)
	}); err != nil {
		return nil, err
	}

	s.notify(ctx, "deactivated", rate)
	return rate, nil
}

// ListByItem returns all rates (active or not) of an item.
func (s *Service) ListByItem(ctx context.Context, itemID id.ID) ([]*SupplierRate, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	return s.repo.ListByItem(ctx, itemID)
}

func (s *Service) notify(ctx context.Context, action string, rate *SupplierRate) {
	s.notifier.NotifyChange(ctx, domain.ChangeScope{
		Kind:     domain.ChangeSupplierRate,
		Action:   action,
		RecordID: rate.ID,
		ItemIDs:  []id.ID{rate.ItemID},
	})
}
