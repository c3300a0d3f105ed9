// Package main is the entry point for the stockview API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"stockview/internal/app"
	"stockview/internal/config"
	"stockview/internal/demo"
	"stockview/internal/domain"
	"stockview/internal/infrastructure/cache"
	v1 "stockview/internal/infrastructure/http/v1"
	"stockview/internal/infrastructure/messaging"
	"stockview/pkg/logger"
)

func main() {
	cfg, err := config.Load("server")
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log.Infow("starting stockview server", "env", cfg.App.Env, "storage", cfg.Storage.Driver)

	// --- Storage ---
	storage, err := app.OpenStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer storage.Close()

	// --- Change events ---
	var notifiers []domain.ChangeNotifier
	var broker *messaging.RabbitMQ
	if cfg.Messaging.Enabled {
		broker, err = messaging.Dial(ctx, cfg.Messaging.URL, 0)
		if err != nil {
			log.Fatalw("failed to connect to broker", "error", err)
		}
		defer func() { _ = broker.Close() }()

		publisher, err := messaging.NewPublisher(broker, cfg.Messaging.Exchange, "stockview-server")
		if err != nil {
			log.Fatalw("failed to create publisher", "error", err)
		}
		notifiers = append(notifiers, publisher)
		log.Infow("change events enabled", "exchange", cfg.Messaging.Exchange)
	}

	// --- Services ---
	engineCfg, err := cfg.Reconcile.Engine()
	if err != nil {
		log.Fatalw("invalid reconcile config", "error", err)
	}
	services, err := app.NewServices(storage, app.Options{
		Engine:       engineCfg,
		CacheEnabled: cfg.Reconcile.CacheEnabled,
		Notifiers:    notifiers,
	})
	if err != nil {
		log.Fatalw("failed to build services", "error", err)
	}

	// Writes from other instances reach the local cache through LISTEN/NOTIFY.
	if services.Cache != nil && storage.Pool != nil {
		listener := cache.NewPGListener(storage.Pool.Unwrap(), storage.ListenChannel, services.Cache)
		if err := listener.Start(ctx); err != nil {
			log.Warnw("cache invalidation listener not started", "error", err)
		} else {
			defer listener.Stop()
		}
	}

	if cfg.App.SeedDemo {
		if _, err := demo.Seed(ctx, services); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	// --- Router ---
	rc := v1.RouterConfig{
		Services: services,
		Storage:  storage,
		Logger:   log,
		Debug:    cfg.IsDevelopment() && cfg.App.LogLevel == "debug",
	}
	if broker != nil {
		rc.Broker = broker
	}
	router := v1.NewRouter(rc)

	// --- HTTP Server ---
	port := strconv.Itoa(cfg.App.Port)
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      v1.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
