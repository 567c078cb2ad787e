package cron

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexusai/billing/internal/api/dto"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/scheduler"
)

// BillingCronHandler lets an external scheduler trigger the recurring billing
// batch over HTTP. It goes through the in-process scheduler so the run carries
// the same actor, timeout and overlap guard as a cron tick.
type BillingCronHandler struct {
	scheduler *scheduler.Scheduler
	logger    *logger.Logger
}

func NewBillingCronHandler(scheduler *scheduler.Scheduler, logger *logger.Logger) *BillingCronHandler {
	return &BillingCronHandler{
		scheduler: scheduler,
		logger:    logger,
	}
}

// RunBillingCycle bills every account once
func (h *BillingCronHandler) RunBillingCycle(c *gin.Context) {
	h.logger.Infow("starting billing cron job", "time", time.Now().UTC().Format(time.RFC3339))

	result, err := h.scheduler.Trigger(c.Request.Context())
	if err != nil && result == nil {
		c.Error(err)
		return
	}
	if err != nil {
		h.logger.Warnw("billing cron job interrupted, returning partial result", "run_id", result.RunID, "error", err)
	}

	c.JSON(http.StatusOK, dto.NewBillingRunResponse(result))
}
