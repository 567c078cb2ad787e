package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/store"
)

const healthPingTimeout = 2 * time.Second

type HealthHandler struct {
	backend store.Backend
	logger  *logger.Logger
}

func NewHealthHandler(backend store.Backend, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		backend: backend,
		logger:  logger,
	}
}

// @Summary Health check
// @Description Reports whether the document store answers
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	if err := h.backend.Ping(ctx); err != nil {
		h.logger.Warnw("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "store": "down"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "up"})
}
