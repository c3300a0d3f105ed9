package delivery_note

import (
	"context"
	"fmt"

	"stockview/internal/core/apperror"
	"stockview/internal/core/id"
	"stockview/internal/core/tx"
	"stockview/internal/domain"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/documents/sales_document"
	"stockview/pkg/logger"
	"stockview/pkg/numerator"
)

// ItemLookup resolves item references.
type ItemLookup interface {
	GetByID(ctx context.Context, id id.ID) (*item.InventoryItem, error)
}

// SalesDocumentLookup resolves the quote an outbound note fulfils.
type SalesDocumentLookup interface {
	GetByID(ctx context.Context, id id.ID) (*sales_document.SalesDocument, error)
}

// Service provides business operations for delivery notes.
// Every committed write is reported to the change notifier so derived
// stock figures can be recomputed.
type Service struct {
	repo      Repository
	items     ItemLookup
	sales     SalesDocumentLookup
	numerator numerator.Generator
	txManager tx.Manager
	notifier  domain.ChangeNotifier
	hooks     *domain.HookRegistry[*DeliveryNote]
}

// NewService creates a new delivery note service.
// sales may be nil, then sales document links are not checked.
func NewService(
	repo Repository,
	items ItemLookup,
	sales SalesDocumentLookup,
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
		sales:     sales,
		numerator: numerator,
		txManager: txManager,
		notifier:  notifier,
		hooks:     domain.NewHookRegistry[*DeliveryNote](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*DeliveryNote] {
	return s.hooks
}

// Create stores a new draft note with its lines.
func (s *Service) Create(ctx context.Context, note *DeliveryNote) error {
	if note.Status != StatusDraft {
		return apperror.NewValidation("new delivery notes must be drafts").
			WithDetail("field", "status")
	}
	if err := note.Validate(ctx); err != nil {
		return err
	}

	// The number is taken inside the transaction so a failed create
	// leaves no gap in a strict sequence.
	assigned := note.Number == ""
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if assigned {
			cfg := numerator.DefaultConfig(NumberPrefix)
			number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: NumeratorStrategy}, note.Date)
			if err != nil {
				return fmt.Errorf("generate number: %w", err)
			}
			note.Number = number
		}
		if err := s.hooks.Run(ctx, domain.BeforeCreate, note); err != nil {
			return err
		}
		if err := s.checkReferences(ctx, note); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, note); err != nil {
			return fmt.Errorf("create delivery note: %w", err)
		}
		if err := s.repo.SaveLines(ctx, note.ID, note.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		if assigned {
			note.Number = ""
		}
		return err
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, note); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "delivery note created",
		"id", note.ID,
		"number", note.Number,
		"direction", note.Direction)

	s.notify(ctx, "created", note, nil)
	return nil
}

// GetByID retrieves a delivery note with lines.
func (s *Service) GetByID(ctx context.Context, noteID id.ID) (*DeliveryNote, error) {
	note, err := s.repo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	note.Lines = lines

	return note, nil
}

// Update rewrites header and lines of a draft note.
// Direction, status and number are taken from the stored note.
func (s *Service) Update(ctx context.Context, note *DeliveryNote) error {
	var previous *DeliveryNote
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.GetByID(ctx, note.ID)
		if err != nil {
			return err
		}
		if err := existing.CanModify(); err != nil {
			return err
		}
		if existing.Direction != note.Direction {
			return apperror.NewValidation("direction cannot change").
				WithDetail("field", "direction")
		}
		note.Status = existing.Status
		note.Number = existing.Number
		previous = existing

		if err := note.Validate(ctx); err != nil {
			return err
		}
		if err := s.hooks.Run(ctx, domain.BeforeUpdate, note); err != nil {
			return err
		}
		if err := s.checkReferences(ctx, note); err != nil {
			return err
		}
		return s.save(ctx, note)
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.AfterUpdate, note); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}
	s.notify(ctx, "updated", note, previous)
	return nil
}

// Confirm makes a draft note effective. Its lines become immutable.
func (s *Service) Confirm(ctx context.Context, noteID id.ID) (*DeliveryNote, error) {
	note, err := s.mutate(ctx, noteID, func(ctx context.Context, note *DeliveryNote) error {
		if err := note.Confirm(); err != nil {
			return err
		}
		// Items may have been deactivated since the lines were written.
		return s.checkItems(ctx, note.Lines)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "delivery note confirmed",
		"id", note.ID,
		"number", note.Number,
		"project_id", note.ProjectID)

	s.notify(ctx, "confirmed", note, nil)
	return note, nil
}

// Cancel voids a draft or confirmed note.
func (s *Service) Cancel(ctx context.Context, noteID id.ID) (*DeliveryNote, error) {
	note, err := s.mutate(ctx, noteID, func(_ context.Context, note *DeliveryNote) error {
		return note.Cancel()
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "delivery note cancelled", "id", note.ID, "number", note.Number)

	s.notify(ctx, "cancelled", note, nil)
	return note, nil
}

// CreateLine appends a line to a draft note.
func (s *Service) CreateLine(ctx context.Context, noteID id.ID, in LineInput) (*Line, error) {
	var created Line
	note, err := s.mutate(ctx, noteID, func(ctx context.Context, note *DeliveryNote) error {
		line, err := note.AddLine(in)
		if err != nil {
			return err
		}
		created = *line
		return s.checkItems(ctx, []Line{created})
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "line_created", note, nil)
	return &created, nil
}

// UpdateLine rewrites a line of a draft note.
func (s *Service) UpdateLine(ctx context.Context, noteID, lineID id.ID, in LineInput) (*Line, error) {
	var updated Line
	var previousItem id.ID
	note, err := s.mutate(ctx, noteID, func(ctx context.Context, note *DeliveryNote) error {
		if err := note.CanModify(); err != nil {
			return err
		}
		if idx := note.lineIndex(lineID); idx >= 0 {
			previousItem = note.Lines[idx].ItemID
		}
		line, err := note.UpdateLine(lineID, in)
		if err != nil {
			return err
		}
		updated = *line
		return s.checkItems(ctx, []Line{updated})
	})
	if err != nil {
		return nil, err
	}

	scopeNote := note
	if previousItem != updated.ItemID {
		scopeNote = note.Clone()
		scopeNote.Lines = append(scopeNote.Lines, Line{ItemID: previousItem})
	}
	s.notify(ctx, "line_updated", scopeNote, nil)
	return &updated, nil
}

// DeleteLine removes a line of a draft note.
func (s *Service) DeleteLine(ctx context.Context, noteID, lineID id.ID) error {
	var removed id.ID
	note, err := s.mutate(ctx, noteID, func(_ context.Context, note *DeliveryNote) error {
		if err := note.CanModify(); err != nil {
			return err
		}
		if idx := note.lineIndex(lineID); idx >= 0 {
			removed = note.Lines[idx].ItemID
		}
		return note.RemoveLine(lineID)
	})
	if err != nil {
		return err
	}

	scopeNote := note.Clone()
	scopeNote.Lines = append(scopeNote.Lines, Line{ItemID: removed})
	s.notify(ctx, "line_deleted", scopeNote, nil)
	return nil
}

// List retrieves delivery notes with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*DeliveryNote], error) {
	return s.repo.List(ctx, filter)
}

// mutate loads a note, applies fn and saves header and lines in one transaction.
// fn must return before touching storage when the note is in the wrong state.
func (s *Service) mutate(
	ctx context.Context,
	noteID id.ID,
	fn func(ctx context.Context, note *DeliveryNote) error,
) (*DeliveryNote, error) {
	var note *DeliveryNote
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		note, err = s.GetByID(ctx, noteID)
		if err != nil {
			return err
		}
		if err := fn(ctx, note); err != nil {
			return err
		}
		return s.save(ctx, note)
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Service) save(ctx context.Context, note *DeliveryNote) error {
	if err := s.repo.Update(ctx, note); err != nil {
		return fmt.Errorf("update delivery note: %w", err)
	}
	if err := s.repo.SaveLines(ctx, note.ID, note.Lines); err != nil {
		return fmt.Errorf("save lines: %w", err)
	}
	return nil
}

func (s *Service) checkReferences(ctx context.Context, note *DeliveryNote) error {
	if err := s.checkItems(ctx, note.Lines); err != nil {
		return err
	}

	if note.ReturnOfID != nil {
		returned, err := s.repo.GetByID(ctx, *note.ReturnOfID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewValidation("returned delivery note does not exist").
					WithDetail("field", "returnOfId").
					WithDetail("value", note.ReturnOfID.String())
			}
			return fmt.Errorf("check returned note: %w", err)
		}
		if returned.Direction != DirectionOutbound {
			return apperror.NewValidation("returned delivery note must be outbound").
				WithDetail("field", "returnOfId")
		}
		if returned.ProjectID != note.ProjectID {
			return apperror.NewValidation("returned delivery note belongs to another project").
				WithDetail("field", "returnOfId")
		}
	}

	if note.SalesDocumentID != nil && s.sales != nil {
		doc, err := s.sales.GetByID(ctx, *note.SalesDocumentID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewValidation("sales document does not exist").
					WithDetail("field", "salesDocumentId").
					WithDetail("value", note.SalesDocumentID.String())
			}
			return fmt.Errorf("check sales document: %w", err)
		}
		if doc.ProjectID != note.ProjectID {
			return apperror.NewValidation("sales document belongs to another project").
				WithDetail("field", "salesDocumentId")
		}
	}

	return nil
}

// checkItems requires every line to reference an existing, active item.
func (s *Service) checkItems(ctx context.Context, lines []Line) error {
	for _, line := range lines {
		it, err := s.items.GetByID(ctx, line.ItemID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewValidation("item does not exist").
					WithDetail("field", "itemId").
					WithDetail("value", line.ItemID.String()).
					WithDetail("lineNo", line.LineNo)
			}
			return fmt.Errorf("check item: %w", err)
		}
		if !it.Active {
			return apperror.NewValidation("item is inactive").
				WithDetail("field", "itemId").
				WithDetail("value", line.ItemID.String()).
				WithDetail("lineNo", line.LineNo)
		}
	}
	return nil
}

// notify reports the change. Matching is project-level, so the scope always
// carries the project. previous widens it to what the note referenced before.
func (s *Service) notify(ctx context.Context, action string, note, previous *DeliveryNote) {
	scope := domain.ChangeScope{
		Kind:       domain.ChangeDeliveryNote,
		Action:     action,
		RecordID:   note.ID,
		ItemIDs:    note.ItemIDs(),
		ProjectIDs: []id.ID{note.ProjectID},
	}
	if previous != nil {
		scope.ItemIDs = domain.MergeIDs(scope.ItemIDs, previous.ItemIDs())
		scope.ProjectIDs = domain.MergeIDs(scope.ProjectIDs, []id.ID{previous.ProjectID})
	}
	s.notifier.NotifyChange(ctx, scope)
}
