// Package main is the entry point for the stockview background worker.
// It reruns reconciliation on every change event and on a fixed interval,
// logging data quality issues.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"stockview/internal/app"
	"stockview/internal/config"
	"stockview/internal/infrastructure/messaging"
	"stockview/pkg/logger"
)

func main() {
	cfg, err := config.Load("worker")
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logger())
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("starting stockview worker", "storage", cfg.Storage.Driver)
	if cfg.Storage.Driver == config.DriverMemory {
		log.Warn("worker runs on an in-memory store and only sees its own data")
	}

	storage, err := app.OpenStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer storage.Close()

	engineCfg, err := cfg.Reconcile.Engine()
	if err != nil {
		log.Fatalw("invalid reconcile config", "error", err)
	}
	// The worker always reconciles fresh snapshots.
	services, err := app.NewServices(storage, app.Options{Engine: engineCfg})
	if err != nil {
		log.Fatalw("failed to build services", "error", err)
	}

	sweeper := NewSweeper(services.Inventory, storage, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sweeper.RunPeriodic(gctx, cfg.Worker.Interval)
		return nil
	})

	if cfg.Messaging.Enabled {
		broker, err := messaging.Dial(ctx, cfg.Messaging.URL, 1)
		if err != nil {
			log.Fatalw("failed to connect to broker", "error", err)
		}
		defer func() { _ = broker.Close() }()

		consumer, err := messaging.NewConsumer(broker, cfg.Messaging.Exchange, cfg.Messaging.Queue, sweeper.HandleEvent)
		if err != nil {
			log.Fatalw("failed to create consumer", "error", err)
		}
		g.Go(func() error {
			return consumer.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Errorw("worker failed", "error", err)
	}
	log.Info("worker stopped")
}
