package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Pinger is satisfied by the database connection
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports dependency health
type HealthHandler struct {
	db      Pinger
	cache   *redis.Client
	version string
}

// NewHealthHandler creates a health handler. cache may be nil.
func NewHealthHandler(db Pinger, cache *redis.Client, version string) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, version: version}
}

// Check handles GET /health. Only the database is critical; a Redis outage
// degrades caching but keeps the service healthy.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "unhealthy",
			"error":    err.Error(),
		})
		return
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = "healthy"
		if err := h.cache.Ping(ctx).Err(); err != nil {
			cacheStatus = "unhealthy"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  "healthy",
		"cache":     cacheStatus,
		"version":   h.version,
		"timestamp": time.Now().Unix(),
	})
}
