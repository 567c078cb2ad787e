package proration

import (
	"github.com/nexusai/billing/internal/domain/plan"
	"github.com/shopspring/decimal"
)

// Params holds the input of a plan switch proration. The caller decides how
// days elapsed is derived; see ElapsedDays for the billing-date based default.
type Params struct {
	CurrentPlan     *plan.Plan
	TargetPlan      *plan.Plan
	CycleLengthDays int
	DaysElapsed     int
}

// Result is the outcome of a proration calculation. Amount is signed:
// positive is owed by the account, negative is owed to the account.
type Result struct {
	Amount                decimal.Decimal `json:"amount"`
	IsUpgrade             bool            `json:"is_upgrade"`
	FractionRemaining     decimal.Decimal `json:"fraction_remaining"`
	CurrentRemainingValue decimal.Decimal `json:"current_remaining_value"`
	TargetRemainingCost   decimal.Decimal `json:"target_remaining_cost"`
}

// IsZero reports a plain swap with no monetary event
func (r *Result) IsZero() bool {
	return r.Amount.IsZero()
}

// Settlement is the absolute amount to collect or return
func (r *Result) Settlement() decimal.Decimal {
	return r.Amount.Abs()
}
