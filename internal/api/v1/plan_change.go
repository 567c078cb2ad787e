package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexusai/billing/internal/api/dto"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/service"
)

type PlanChangeHandler struct {
	service service.PlanChangeService
	log     *logger.Logger
}

func NewPlanChangeHandler(service service.PlanChangeService, log *logger.Logger) *PlanChangeHandler {
	return &PlanChangeHandler{
		service: service,
		log:     log,
	}
}

// @Summary Switch an account's plan
// @Description Upgrades are charged immediately. Downgrades return a prompt that must be resolved.
// @Tags Plan Changes
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body dto.SwitchPlanRequest true "Target plan"
// @Success 200 {object} dto.PlanChangeResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Router /accounts/{id}/plan [post]
func (h *PlanChangeHandler) SwitchPlan(c *gin.Context) {
	var req dto.SwitchPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.SwitchPlan(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Settle a downgrade
// @Tags Plan Changes
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body dto.ResolveDowngradeRequest true "Prompt and settlement choice"
// @Success 200 {object} dto.PlanChangeResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /accounts/{id}/plan/downgrade [post]
func (h *PlanChangeHandler) ResolveDowngrade(c *gin.Context) {
	var req dto.ResolveDowngradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ResolveDowngrade(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
