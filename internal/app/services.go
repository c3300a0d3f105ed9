package app

import (
	"stockview/internal/domain"
	"stockview/internal/domain/catalogs/category"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/catalogs/supplier_rate"
	"stockview/internal/domain/documents/delivery_note"
	"stockview/internal/domain/documents/sales_document"
	"stockview/internal/domain/inventory"
	"stockview/internal/domain/reconcile"
	"stockview/internal/infrastructure/cache"
	"stockview/internal/infrastructure/storage/postgres"
	"stockview/pkg/numerator"
)

// Options configures NewServices.
type Options struct {
	Engine       reconcile.Config
	CacheEnabled bool

	// Notifiers receive every committed change after the local cache
	Notifiers []domain.ChangeNotifier
}

// Services holds the business services of one instance.
type Services struct {
	Items          *item.Service
	Categories     *category.Service
	SupplierRates  *supplier_rate.Service
	DeliveryNotes  *delivery_note.Service
	SalesDocuments *sales_document.Service
	Inventory      *inventory.Service

	Engine *reconcile.Engine
	// Cache is nil when caching is disabled
	Cache *cache.ViewCache
	// Notifier is the fan-out every mutation service reports to
	Notifier domain.ChangeNotifier
}

// NewServices wires the services over st.
func NewServices(st *Storage, opts Options) (*Services, error) {
	engine, err := reconcile.NewEngine(opts.Engine)
	if err != nil {
		return nil, err
	}

	var notifiers domain.Notifiers
	var viewCache *cache.ViewCache
	var resultCache inventory.ResultCache
	if opts.CacheEnabled {
		viewCache = cache.NewViewCache()
		resultCache = viewCache
		notifiers = append(notifiers, viewCache)
	}
	if st.PgTxManager != nil {
		notifiers = append(notifiers, postgres.NewChangeNotifier(st.PgTxManager, st.ListenChannel))
	}
	for _, n := range opts.Notifiers {
		if n != nil {
			notifiers = append(notifiers, n)
		}
	}

	gen := numerator.New(st.Sequence)

	return &Services{
		Items:          item.NewService(st.Items, st.Categories, gen, st.TxManager, notifiers),
		Categories:     category.NewService(st.Categories, st.TxManager, notifiers),
		SupplierRates:  supplier_rate.NewService(st.SupplierRates, st.Items, st.TxManager, notifiers),
		DeliveryNotes:  delivery_note.NewService(st.DeliveryNotes, st.Items, st.SalesDocuments, gen, st.TxManager, notifiers),
		SalesDocuments: sales_document.NewService(st.SalesDocuments, st.Items, gen, st.TxManager, notifiers),
		Inventory:      inventory.NewService(st.Source, engine, resultCache),
		Engine:         engine,
		Cache:          viewCache,
		Notifier:       notifiers,
	}, nil
}
