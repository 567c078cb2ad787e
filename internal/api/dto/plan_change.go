package dto

import (
	"github.com/nexusai/billing/internal/domain/ledger"
	"github.com/nexusai/billing/internal/domain/proration"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/types"
	"github.com/nexusai/billing/internal/validator"
	"github.com/shopspring/decimal"
)

type SwitchPlanRequest struct {
	TargetPlanID string `json:"target_plan_id" validate:"required"`
	// PaymentMethodID overrides the default method for an upgrade charge
	PaymentMethodID string `json:"payment_method_id,omitempty"`
}

func (r *SwitchPlanRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ProrationResponse is the money side of a plan switch
type ProrationResponse struct {
	Amount            decimal.Decimal `json:"amount"`
	IsUpgrade         bool            `json:"is_upgrade"`
	DaysElapsed       int             `json:"days_elapsed"`
	CycleLengthDays   int             `json:"cycle_length_days"`
	FractionRemaining decimal.Decimal `json:"fraction_remaining"`
}

func NewProrationResponse(result *proration.Result, elapsed, cycleDays int) *ProrationResponse {
	return &ProrationResponse{
		Amount:            result.Amount,
		IsUpgrade:         result.IsUpgrade,
		DaysElapsed:       elapsed,
		CycleLengthDays:   cycleDays,
		FractionRemaining: result.FractionRemaining,
	}
}

// PlanChangeResponse is returned by both SwitchPlan and ResolveDowngrade.
// Prompt is set only when Kind is downgrade_prompt.
type PlanChangeResponse struct {
	Kind        types.PlanChangeKind       `json:"kind"`
	Account     *AccountResponse           `json:"account"`
	Proration   *ProrationResponse         `json:"proration,omitempty"`
	Transaction *ledger.Transaction        `json:"transaction,omitempty"`
	Prompt      *proration.DowngradePrompt `json:"prompt,omitempty"`
}

type ResolveDowngradeRequest struct {
	Prompt proration.DowngradePrompt `json:"prompt"`
	Choice types.SettlementChoice    `json:"choice" validate:"required"`
}

func (r *ResolveDowngradeRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.Choice.Validate(); err != nil {
		return ierr.WithError(err).
			WithHint("Settlement must be store_credit or refund").
			Mark(ierr.ErrInvalidOperation)
	}
	if r.Prompt.CurrentPlanID == "" || r.Prompt.TargetPlanID == "" {
		return ierr.NewError("prompt is incomplete").
			WithHint("Downgrade prompt must name the current and target plans").
			Mark(ierr.ErrValidation)
	}
	if !r.Prompt.Amount.IsPositive() {
		return ierr.NewError("prompt amount must be positive").
			WithHint("Downgrade prompt amount must be greater than zero").
			WithReportableDetails(map[string]any{"amount": r.Prompt.Amount.String()}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
