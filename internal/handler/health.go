package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
)

// HealthHandler exposes liveness and readiness endpoints.
type HealthHandler struct {
	repo repository.Pinger
	log  zerolog.Logger
}

func NewHealthHandler(repo repository.Pinger, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{repo: repo, log: logger.With().Str("module", "handler").Str("component", "health").Logger()}
}

// Liveness responds OK if the process is up; it doesn't check dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Readiness verifies the storage backend answers. Driver errors are logged, not returned.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.repo.Ping(c.Request.Context()); err != nil {
		h.log.Warn().Err(err).Msg("readiness check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
