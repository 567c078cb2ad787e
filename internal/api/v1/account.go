package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexusai/billing/internal/api/dto"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/service"
	"github.com/nexusai/billing/internal/types"
)

type AccountHandler struct {
	accountService       service.AccountService
	paymentMethodService service.PaymentMethodService
	log                  *logger.Logger
}

func NewAccountHandler(
	accountService service.AccountService,
	paymentMethodService service.PaymentMethodService,
	log *logger.Logger,
) *AccountHandler {
	return &AccountHandler{
		accountService:       accountService,
		paymentMethodService: paymentMethodService,
		log:                  log,
	}
}

// @Summary Sign up an account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param account body dto.CreateAccountRequest true "Account"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary List accounts
// @Tags Accounts
// @Produce json
// @Param filter query types.AccountFilter false "Filter"
// @Success 200 {object} dto.ListAccountsResponse
// @Router /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	var filter types.AccountFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.accountService.ListAccounts(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get an account
// @Tags Accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	resp, err := h.accountService.GetAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Suspend or reactivate an account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body dto.UpdateAccountStatusRequest true "Status"
// @Success 200 {object} dto.AccountResponse
// @Router /accounts/{id}/status [put]
func (h *AccountHandler) SetStatus(c *gin.Context) {
	var req dto.UpdateAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.accountService.SetStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Add a payment method
// @Tags Payment Methods
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param method body dto.AddPaymentMethodRequest true "Payment method"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /accounts/{id}/payment-methods [post]
func (h *AccountHandler) AddPaymentMethod(c *gin.Context) {
	var req dto.AddPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.paymentMethodService.AddPaymentMethod(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Remove a payment method
// @Tags Payment Methods
// @Produce json
// @Param id path string true "Account ID"
// @Param method_id path string true "Payment method ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /accounts/{id}/payment-methods/{method_id} [delete]
func (h *AccountHandler) RemovePaymentMethod(c *gin.Context) {
	resp, err := h.paymentMethodService.RemovePaymentMethod(c.Request.Context(), c.Param("id"), c.Param("method_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Toggle auto pay
// @Tags Payment Methods
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body dto.SetAutoPayRequest true "Auto pay"
// @Success 200 {object} dto.AccountResponse
// @Router /accounts/{id}/autopay [put]
func (h *AccountHandler) SetAutoPay(c *gin.Context) {
	var req dto.SetAutoPayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.paymentMethodService.SetAutoPay(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
