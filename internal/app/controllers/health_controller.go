package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/database"
)

// HealthController reports store connectivity and pool stats.
type HealthController struct {
	pool *database.ConnectionPool
}

// NewHealthController wires a controller around pool.
func NewHealthController(pool *database.ConnectionPool) *HealthController {
	return &HealthController{pool: pool}
}

// Health handles GET /health.
func (ctl *HealthController) Health(c *gin.Context) {
	if err := ctl.pool.HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
		return
	}
	stats, _ := ctl.pool.Stats()
	c.JSON(http.StatusOK, gin.H{"status": "up", "pool": stats})
}
