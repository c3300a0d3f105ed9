// Package main provides a CLI tool for seeding the database with demo data.
package main

import (
	"context"
	"fmt"
	"os"

	"stockview/internal/app"
	"stockview/internal/config"
	"stockview/internal/demo"
	"stockview/pkg/logger"
)

func main() {
	cfg, err := config.Load("seed")
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	if cfg.Storage.Driver != config.DriverPostgres {
		log.Fatal("seeding requires the postgres storage driver (STOCKVIEW_STORAGE_DRIVER=postgres)")
	}

	ctx := context.Background()

	// Seeding always runs migrations first.
	cfg.Storage.Migrate = true
	storage, err := app.OpenStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer storage.Close()

	log.Info("connected to database")

	engineCfg, err := cfg.Reconcile.Engine()
	if err != nil {
		log.Fatalw("invalid reconcile config", "error", err)
	}
	services, err := app.NewServices(storage, app.Options{Engine: engineCfg})
	if err != nil {
		log.Fatalw("failed to build services", "error", err)
	}

	seeded, err := demo.Seed(ctx, services)
	if err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}
	if !seeded {
		log.Info("nothing to seed")
		return
	}

	issues, err := services.Inventory.DataQuality(ctx)
	if err != nil {
		log.Fatalw("failed to reconcile seeded data", "error", err)
	}
	log.Infow("seed completed", "data_quality_issues", len(issues))
}
