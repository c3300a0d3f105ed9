package sales_document

import (
	"context"
	"fmt"

	"stockview/internal/core/apperror"
	"stockview/internal/core/id"
	"stockview/internal/core/tx"
	"stockview/internal/domain"
	"stockview/internal/domain/catalogs/item"
	"stockview/pkg/logger"
	"stockview/pkg/numerator"
)

// ItemLookup resolves item references.
type ItemLookup interface {
	GetByID(ctx context.Context, id id.ID) (*item.InventoryItem, error)
}

// Service provides business operations for sales documents.
type Service struct {
	repo      Repository
	items     ItemLookup
	numerator numerator.Generator
	txManager tx.Manager
	notifier  domain.ChangeNotifier
	hooks     *domain.HookRegistry[*SalesDocument]
}

// NewService creates a new sales document service.
func NewService(
	repo Repository,
	items ItemLookup,
	numerator numerator.Generator,
	txManager tx.Manager,
	notifier domain.ChangeNotifier,
) *Service {
	if notifier == nil {
		notifier = domain.NopNotifier
	}
	return &Service{
		repo:      repo,
		items:     items,
		numerator: numerator,
		txManager: txManager,
		notifier:  notifier,
		hooks:     domain.NewHookRegistry[*SalesDocument](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*SalesDocument] {
	return s.hooks
}

// Create stores a new draft document with its lines.
func (s *Service) Create(ctx context.Context, doc *SalesDocument) error {
	if doc.Status != StatusDraft {
		return apperror.NewValidation("new documents must be drafts").
			WithDetail("field", "status")
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	// The number is taken inside the transaction so a failed create
	// leaves no gap in a strict sequence.
	assigned := doc.Number == ""
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if assigned {
			cfg := numerator.DefaultConfig(numberPrefix(doc.Type))
			number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: NumeratorStrategy}, doc.Date)
			if err != nil {
				return fmt.Errorf("generate number: %w", err)
			}
			doc.Number = number
		}
		if err := s.hooks.Run(ctx, domain.BeforeCreate, doc); err != nil {
			return err
		}
		if err := s.checkItems(ctx, doc.Lines); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		if assigned {
			doc.Number = ""
		}
		return err
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "sales document created",
		"id", doc.ID,
		"number", doc.Number,
		"type", doc.Type)

	s.notify(ctx, "created", doc, nil)
	return nil
}

// GetByID retrieves a sales document with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*SalesDocument, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Update rewrites header and lines of a draft document.
func (s *Service) Update(ctx context.Context, doc *SalesDocument) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	var previous *SalesDocument
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.GetByID(ctx, doc.ID)
		if err != nil {
			return err
		}
		if err := existing.CanModify(); err != nil {
			return err
		}
		if existing.Type != doc.Type {
			return apperror.NewValidation("document type cannot change").
				WithDetail("field", "type")
		}
		doc.Status = existing.Status
		doc.Number = existing.Number
		previous = existing

		if err := s.hooks.Run(ctx, domain.BeforeUpdate, doc); err != nil {
			return err
		}
		if err := s.checkItems(ctx, doc.Lines); err != nil {
			return err
		}
		doc.recalculateTotal()
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.AfterUpdate, doc); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}
	s.notify(ctx, "updated", doc, previous)
	return nil
}

// Send marks a draft as sent to the client.
func (s *Service) Send(ctx context.Context, docID id.ID) (*SalesDocument, error) {
	return s.transition(ctx, docID, "sent", (*SalesDocument).Send)
}

// Accept records acceptance. Accepted quotes commit stock until delivered.
func (s *Service) Accept(ctx context.Context, docID id.ID) (*SalesDocument, error) {
	return s.transition(ctx, docID, "accepted", (*SalesDocument).Accept)
}

// Collect records payment of an invoice.
func (s *Service) Collect(ctx context.Context, docID id.ID) (*SalesDocument, error) {
	return s.transition(ctx, docID, "collected", (*SalesDocument).Collect)
}

// Cancel voids the document.
func (s *Service) Cancel(ctx context.Context, docID id.ID) (*SalesDocument, error) {
	return s.transition(ctx, docID, "cancelled", (*SalesDocument).Cancel)
}

// transition applies a lifecycle change. The state check runs before any write.
func (s *Service) transition(
	ctx context.Context,
	docID id.ID,
	action string,
	apply func(*SalesDocument) error,
) (*SalesDocument, error) {
	var doc *SalesDocument
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.GetByID(ctx, docID)
		if err != nil {
			return err
		}
		from := doc.Status
		if err := apply(doc); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		logger.Info(ctx, "sales document status changed",
			"id", doc.ID,
			"number", doc.Number,
			"from", from,
			"to", doc.Status)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, action, doc, nil)
	return doc, nil
}

// List retrieves sales documents with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*SalesDocument], error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) checkItems(ctx context.Context, lines []Line) error {
	for _, line := range lines {
		if _, err := s.items.GetByID(ctx, line.ItemID); err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewValidation("item does not exist").
					WithDetail("field", "itemId").
					WithDetail("value", line.ItemID.String()).
					WithDetail("lineNo", line.LineNo)
			}
			return fmt.Errorf("check item: %w", err)
		}
	}
	return nil
}

// notify reports the change. previous, when set, widens the scope to the
// project and items the document referenced before the write.
func (s *Service) notify(ctx context.Context, action string, doc, previous *SalesDocument) {
	scope := domain.ChangeScope{
		Kind:       domain.ChangeSalesDocument,
		Action:     action,
		RecordID:   doc.ID,
		ItemIDs:    doc.ItemIDs(),
		ProjectIDs: []id.ID{doc.ProjectID},
	}
	if previous != nil {
		scope.ItemIDs = domain.MergeIDs(scope.ItemIDs, previous.ItemIDs())
		scope.ProjectIDs = domain.MergeIDs(scope.ProjectIDs, []id.ID{previous.ProjectID})
	}
	s.notifier.NotifyChange(ctx, scope)
}
