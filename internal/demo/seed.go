// Package demo seeds a small dataset that exercises every part of the
// reconciliation: rentals, returns, sales, commitments and supplier costs.
package demo

import (
	"context"
	"fmt"
	"time"

	"stockview/internal/app"
	"stockview/internal/core/id"
	"stockview/internal/core/types"
	"stockview/internal/domain"
	"stockview/internal/domain/catalogs/category"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/catalogs/supplier_rate"
	"stockview/internal/domain/documents/delivery_note"
	"stockview/internal/domain/documents/sales_document"
	"stockview/pkg/logger"
)

// Projects referenced by the seeded documents. Projects are external to the
// catalog, so their ids are fixed.
var (
	ProjectFestival   = id.MustParse("0190a000-0000-7000-8000-000000000001")
	ProjectConference = id.MustParse("0190a000-0000-7000-8000-000000000002")
	ProjectWorkshop   = id.MustParse("0190a000-0000-7000-8000-000000000003")
)

// Seed creates the demo dataset through the services. It does nothing when
// the item catalog is not empty. Returns false when seeding was skipped.
func Seed(ctx context.Context, svc *app.Services) (bool, error) {
	existing, err := svc.Items.List(ctx, item.ListFilter{ListFilter: domain.ListFilter{Limit: 1}})
	if err != nil {
		return false, fmt.Errorf("check catalog: %w", err)
	}
	if existing.TotalCount > 0 {
		logger.Info(ctx, "demo data skipped, catalog not empty", "items", existing.TotalCount)
		return false, nil
	}

	s := seeder{svc: svc, day: time.Now().UTC().Truncate(24 * time.Hour)}
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"catalog", s.catalog},
		{"supplier rates", s.rates},
		{"festival", s.festival},
		{"conference", s.conference},
		{"workshop", s.workshop},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return false, fmt.Errorf("seed %s: %w", step.name, err)
		}
	}

	logger.Info(ctx, "demo data seeded", "items", len(s.items))
	return true, nil
}

type seeder struct {
	svc   *app.Services
	day   time.Time
	items map[string]*item.InventoryItem
}

func (s *seeder) catalog(ctx context.Context) error {
	audio := category.NewCategory("AUDIO", "Audio")
	video := category.NewCategory("VIDEO", "Video")
	for _, c := range []*category.Category{audio, video} {
		if err := s.svc.Categories.Create(ctx, c); err != nil {
			return err
		}
	}

	type seed struct {
		key      string
		name     string
		typ      item.ItemType
		category *category.Category
		stock    int64
		price    string
	}
	seeds := []seed{
		{"speaker", "Line array speaker", item.TypeProduct, audio, 12, "250.00"},
		{"mixer", "Digital mixing console", item.TypeProduct, audio, 3, "900.00"},
		{"projector", "Laser projector 10k", item.TypeProduct, video, 4, "1200.00"},
		{"setup", "On-site setup", item.TypeService, nil, 0, "80.00"},
	}

	s.items = make(map[string]*item.InventoryItem, len(seeds))
	for _, sd := range seeds {
		it := item.NewInventoryItem("", sd.name, sd.typ)
		if sd.category != nil {
			it.CategoryID = &sd.category.ID
		}
		it.WarehouseQty = types.NewQuantityFromInt(sd.stock)
		if it.Stockable {
			it.MinStock = types.NewQuantityFromInt(1)
		}
		it.BasePrice = types.MustMoney(sd.price)
		if err := s.svc.Items.Create(ctx, it); err != nil {
			return err
		}
		s.items[sd.key] = it
	}
	return nil
}

func (s *seeder) rates(ctx context.Context) error {
	rates := []struct {
		key, supplier, cost string
	}{
		{"speaker", "Northwind Audio", "120.00"},
		{"speaker", "Contoso Pro", "140.00"},
		{"mixer", "Northwind Audio", "610.00"},
		{"projector", "Fabrikam Visual", "780.00"},
	}
	for _, r := range rates {
		rate := supplier_rate.NewSupplierRate(s.items[r.key].ID, r.supplier, types.MustMoney(r.cost))
		if err := s.svc.SupplierRates.Create(ctx, rate); err != nil {
			return err
		}
	}
	return nil
}

// festival is a closed round trip: goods went out, came back, and the
// invoice for the mixer and the setup work was collected.
func (s *seeder) festival(ctx context.Context) error {
	invoice := sales_document.NewSalesDocument(sales_document.TypeInvoice, ProjectFestival)
	invoice.Date = s.day.AddDate(0, 0, -10)
	if err := invoice.SetLines([]sales_document.LineInput{
		{ItemID: s.items["mixer"].ID, Quantity: types.NewQuantityFromInt(1), UnitPrice: types.MustMoney("1450.00")},
		{ItemID: s.items["setup"].ID, Quantity: types.NewQuantityFromInt(2), UnitPrice: types.MustMoney("80.00")},
	}); err != nil {
		return err
	}
	if err := s.svc.SalesDocuments.Create(ctx, invoice); err != nil {
		return err
	}
	for _, step := range []func(context.Context, id.ID) (*sales_document.SalesDocument, error){
		s.svc.SalesDocuments.Send, s.svc.SalesDocuments.Accept, s.svc.SalesDocuments.Collect,
	} {
		if _, err := step(ctx, invoice.ID); err != nil {
			return err
		}
	}

	out := delivery_note.NewDeliveryNote(ProjectFestival, delivery_note.DirectionOutbound)
	out.Date = s.day.AddDate(0, 0, -9)
	out.SalesDocumentID = &invoice.ID
	if err := out.SetLines([]delivery_note.LineInput{
		{ItemID: s.items["speaker"].ID, Quantity: types.NewQuantityFromInt(8)},
		{ItemID: s.items["mixer"].ID, Quantity: types.NewQuantityFromInt(1)},
	}); err != nil {
		return err
	}
	if err := s.createConfirmed(ctx, out); err != nil {
		return err
	}

	back := delivery_note.NewDeliveryNote(ProjectFestival, delivery_note.DirectionInbound)
	back.Date = s.day.AddDate(0, 0, -2)
	back.ReturnOfID = &out.ID
	if err := back.SetLines([]delivery_note.LineInput{
		{ItemID: s.items["speaker"].ID, Quantity: types.NewQuantityFromInt(6)},
	}); err != nil {
		return err
	}
	return s.createConfirmed(ctx, back)
}

// conference holds an accepted quote with nothing delivered yet.
func (s *seeder) conference(ctx context.Context) error {
	quote := sales_document.NewSalesDocument(sales_document.TypeQuote, ProjectConference)
	quote.Date = s.day.AddDate(0, 0, -1)
	if err := quote.SetLines([]sales_document.LineInput{
		{ItemID: s.items["projector"].ID, Quantity: types.NewQuantityFromInt(2), UnitPrice: types.MustMoney("300.00")},
		{ItemID: s.items["speaker"].ID, Quantity: types.NewQuantityFromInt(4), UnitPrice: types.MustMoney("60.00")},
	}); err != nil {
		return err
	}
	if err := s.svc.SalesDocuments.Create(ctx, quote); err != nil {
		return err
	}
	if _, err := s.svc.SalesDocuments.Send(ctx, quote.ID); err != nil {
		return err
	}
	_, err := s.svc.SalesDocuments.Accept(ctx, quote.ID)
	return err
}

// workshop has projectors out on site with no return yet.
func (s *seeder) workshop(ctx context.Context) error {
	out := delivery_note.NewDeliveryNote(ProjectWorkshop, delivery_note.DirectionOutbound)
	out.Date = s.day.AddDate(0, 0, -3)
	serial := "PRJ-10K-0042"
	if err := out.SetLines([]delivery_note.LineInput{
		{ItemID: s.items["projector"].ID, Quantity: types.NewQuantityFromInt(1), SerialNumber: &serial},
		{ItemID: s.items["projector"].ID, Quantity: types.NewQuantityFromInt(1)},
	}); err != nil {
		return err
	}
	return s.createConfirmed(ctx, out)
}

func (s *seeder) createConfirmed(ctx context.Context, note *delivery_note.DeliveryNote) error {
	if err := s.svc.DeliveryNotes.Create(ctx, note); err != nil {
		return err
	}
	_, err := s.svc.DeliveryNotes.Confirm(ctx, note.ID)
	return err
}
