package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bizops/backend/internal/infrastructure/persistence"
)

// HealthHandler reports process liveness and dependency readiness
type HealthHandler struct {
	BaseHandler
	db      *persistence.Database
	started time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *persistence.Database) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// Live reports that the process is up
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).String(),
	})
}

// Ready reports whether the service can reach its database
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "database unreachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
