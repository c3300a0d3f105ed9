// Package v1 provides HTTP API version 1.
package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"

	"stockview/internal/app"
	"stockview/internal/infrastructure/http/v1/handlers"
	"stockview/internal/infrastructure/http/v1/middleware"
	"stockview/pkg/logger"
)

// Version is reported by /health/info.
const Version = "0.1.0"

// RouterConfig holds router configuration.
type RouterConfig struct {
	Services *app.Services
	Storage  *app.Storage

	// Logger for request logging
	Logger *logger.Logger

	// Broker is checked by the readiness probe when set
	Broker handlers.BrokerHealth

	// Debug switches gin to debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(handlers.HealthHandlerConfig{
		Storage: cfg.Storage,
		Pool:    cfg.Storage.Pool,
		Broker:  cfg.Broker,
		Cache:   cfg.Services.Cache,
		Version: Version,
	})
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	v1 := router.Group("/api/v1")
	{
		registerInventoryRoutes(v1, cfg)
		registerCatalogRoutes(v1, cfg)
		registerDocumentRoutes(v1, cfg)
	}

	return router
}

// Handler wraps the router with response compression.
func Handler(router *gin.Engine) http.Handler {
	return gzhttp.GzipHandler(router)
}

// registerInventoryRoutes registers the enriched view endpoints.
func registerInventoryRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	handlers.NewInventoryHandler(baseHandler, cfg.Services.Inventory).
		RegisterRoutes(rg.Group("/inventory"))
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	rates := handlers.NewSupplierRateHandler(baseHandler, cfg.Services.SupplierRates)

	Mount(catalogs, map[string]RouteRegistrar{
		"/items":          handlers.NewItemHandler(baseHandler, cfg.Services.Items),
		"/categories":     handlers.NewCategoryHandler(baseHandler, cfg.Services.Categories),
		"/supplier-rates": rates,
	})
	catalogs.GET("/items/:id/supplier-rates", rates.ListByItem)
}

// registerDocumentRoutes registers document endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	docs := rg.Group("/document")
	baseHandler := handlers.NewBaseHandler()

	Mount(docs, map[string]RouteRegistrar{
		"/delivery-notes":  handlers.NewDeliveryNoteHandler(baseHandler, cfg.Services.DeliveryNotes),
		"/sales-documents": handlers.NewSalesDocumentHandler(baseHandler, cfg.Services.SalesDocuments),
	})
}
