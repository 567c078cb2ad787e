package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexusai/billing/internal/api/dto"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/service"
)

type BillingHandler struct {
	service service.BillingService
	log     *logger.Logger
}

func NewBillingHandler(service service.BillingService, log *logger.Logger) *BillingHandler {
	return &BillingHandler{
		service: service,
		log:     log,
	}
}

// @Summary Run billing now
// @Description Charges the listed accounts, or every account when none are listed
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body dto.RunBillingRequest false "Accounts to bill"
// @Success 200 {object} dto.BillingRunResponse
// @Router /billing/runs [post]
func (h *BillingHandler) RunBilling(c *gin.Context) {
	var req dto.RunBillingRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(ierr.WithError(err).
				WithHint("Invalid request format").
				Mark(ierr.ErrValidation))
			return
		}
	}

	resp, err := h.service.RunBillingCycle(c.Request.Context(), req)
	if err != nil && resp == nil {
		c.Error(err)
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		h.log.Warnw("billing run interrupted, returning partial result", "run_id", resp.RunID, "error", err)
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Revenue overview
// @Tags Billing
// @Produce json
// @Success 200 {object} dto.RevenueSummaryResponse
// @Router /billing/summary [get]
func (h *BillingHandler) GetRevenueSummary(c *gin.Context) {
	resp, err := h.service.GetRevenueSummary(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
