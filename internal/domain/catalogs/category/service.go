package category

import (
	"context"

	"stockview/internal/core/apperror"
	"stockview/internal/core/tx"
	"stockview/internal/domain"
)

// Repository defines the interface for category persistence.
type Repository interface {
	domain.CatalogRepository[*Category]
}

// Service provides business logic for categories.
type Service struct {
	*domain.CatalogService[*Category]
}

// NewService creates a new category service.
func NewService(repo Repository, txManager tx.Manager, notifier domain.ChangeNotifier) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Category]{
		Repo:       repo,
		TxManager:  txManager,
		Notifier:   notifier,
		EntityName: "category",
		Kind:       domain.ChangeCategory,
	})

	base.Hooks().OnBeforeCreate(func(ctx context.Context, c *Category) error {
		exists, err := repo.ExistsByCode(ctx, c.Code)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewDuplicate("category", "code", c.Code)
		}
		return nil
	})

	return &Service{CatalogService: base}
}
