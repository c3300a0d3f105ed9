// Package app assembles repositories, services and change feeds into one
// running instance. Binaries and tests build on it.
package app

import (
	"context"
	"fmt"

	"stockview/internal/config"
	"stockview/internal/core/tx"
	"stockview/internal/domain/catalogs/category"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/catalogs/supplier_rate"
	"stockview/internal/domain/documents/delivery_note"
	"stockview/internal/domain/documents/sales_document"
	"stockview/internal/domain/store"
	"stockview/internal/infrastructure/numerator"
	"stockview/internal/infrastructure/storage/memory"
	"stockview/internal/infrastructure/storage/postgres"
	"stockview/internal/infrastructure/storage/postgres/catalog_repo"
	"stockview/internal/infrastructure/storage/postgres/document_repo"
	"stockview/pkg/logger"
	pkgnumerator "stockview/pkg/numerator"
)

// Storage bundles the repositories of one record store.
type Storage struct {
	Driver string

	Items          item.Repository
	Categories     category.Repository
	SupplierRates  supplier_rate.Repository
	DeliveryNotes  delivery_note.Repository
	SalesDocuments sales_document.Repository

	TxManager tx.Manager
	Source    store.Source
	Sequence  pkgnumerator.Sequence

	// Postgres only
	Pool          *postgres.Pool
	PgTxManager   *postgres.TxManager
	ListenChannel string
}

// NewMemoryStorage creates an empty in-process store.
func NewMemoryStorage() *Storage {
	s := memory.NewStore()
	return &Storage{
		Driver:         config.DriverMemory,
		Items:          memory.NewItemRepo(s),
		Categories:     memory.NewCategoryRepo(s),
		SupplierRates:  memory.NewSupplierRateRepo(s),
		DeliveryNotes:  memory.NewDeliveryNoteRepo(s),
		SalesDocuments: memory.NewSalesDocumentRepo(s),
		TxManager:      memory.NewTxManager(s),
		Source:         s,
		Sequence:       memory.NewSequence(s),
	}
}

// OpenPostgres connects to PostgreSQL and applies pending migrations
// when cfg.Migrate is set.
func OpenPostgres(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	poolCfg := postgres.DefaultPoolConfig(cfg.DSN)
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	txm := postgres.NewTxManager(pool)

	if cfg.Migrate {
		if err := postgres.Migrate(ctx, txm); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	logger.Info(ctx, "postgres storage ready", "max_conns", poolCfg.MaxConns)

	return &Storage{
		Driver:         config.DriverPostgres,
		Items:          catalog_repo.NewItemRepo(txm),
		Categories:     catalog_repo.NewCategoryRepo(txm),
		SupplierRates:  catalog_repo.NewSupplierRateRepo(txm),
		DeliveryNotes:  document_repo.NewDeliveryNoteRepo(txm),
		SalesDocuments: document_repo.NewSalesDocumentRepo(txm),
		TxManager:      txm,
		Source:         postgres.NewSnapshotSource(txm),
		Sequence:       numerator.NewSequence(txm),
		Pool:           pool,
		PgTxManager:    txm,
		ListenChannel:  cfg.ListenChannel,
	}, nil
}

// OpenStorage opens the store selected by cfg.Driver.
func OpenStorage(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return NewMemoryStorage(), nil
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Ping checks that the store is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	if s.Pool == nil {
		return nil
	}
	return s.Pool.Ping(ctx)
}

// LogStats logs pool usage. The memory store has nothing to report.
func (s *Storage) LogStats(ctx context.Context) {
	if s.Pool != nil {
		s.Pool.LogStats(ctx)
	}
}

// Close releases the connection pool, if any.
func (s *Storage) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}
