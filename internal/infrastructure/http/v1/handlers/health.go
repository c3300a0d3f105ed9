package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockview/internal/infrastructure/cache"
	"stockview/internal/infrastructure/storage/postgres"
)

// Pinger checks a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BrokerHealth reports message broker connectivity.
type BrokerHealth interface {
	Healthy() bool
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	storage Pinger
	pool    *postgres.Pool
	broker  BrokerHealth
	cache   *cache.ViewCache
	version string
}

// HealthHandlerConfig configures the health handler. Only Storage is required.
type HealthHandlerConfig struct {
	Storage Pinger
	Pool    *postgres.Pool
	Broker  BrokerHealth
	Cache   *cache.ViewCache
	Version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(cfg HealthHandlerConfig) *HealthHandler {
	return &HealthHandler{
		storage: cfg.Storage,
		pool:    cfg.Pool,
		broker:  cfg.Broker,
		cache:   cfg.Cache,
		version: cfg.Version,
	}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := map[string]string{}
	healthy := true

	if err := h.storage.Ping(c.Request.Context()); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		healthy = false
	} else {
		checks["database"] = "healthy"
	}

	if h.broker != nil {
		if h.broker.Healthy() {
			checks["broker"] = "healthy"
		} else {
			checks["broker"] = "unhealthy"
			healthy = false
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": checks,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": checks,
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	info := gin.H{
		"app":     "stockview",
		"version": h.version,
	}

	if h.pool != nil {
		stat := h.pool.Stats()
		info["database"] = map[string]any{
			"total_conns":    stat.TotalConns,
			"acquired_conns": stat.AcquiredConns,
			"idle_conns":     stat.IdleConns,
			"max_conns":      stat.MaxConns,
		}
	}

	if h.cache != nil {
		info["cache"] = h.cache.GetStats()
	}

	c.JSON(http.StatusOK, info)
}
