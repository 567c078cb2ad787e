package proration

import (
	"time"

	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/types"
	"github.com/shopspring/decimal"
)

// amountPrecision is the number of decimal places money is rounded to
const amountPrecision = 2

// Calculator computes the monetary difference of a mid-cycle plan switch.
type Calculator interface {
	Calculate(params Params) (*Result, error)
}

// NewCalculator returns the day based calculator
func NewCalculator() Calculator {
	return &dayBasedCalculator{}
}

type dayBasedCalculator struct{}

// Calculate prices the unused part of the cycle on both plans and returns
// target minus current. Rounding happens once, half away from zero, so
// Calculate(A, B) is always the exact negation of Calculate(B, A).
func (c *dayBasedCalculator) Calculate(params Params) (*Result, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	cycle := decimal.NewFromInt(int64(params.CycleLengthDays))
	remaining := decimal.NewFromInt(int64(params.CycleLengthDays - params.DaysElapsed))

	current := params.CurrentPlan.Price
	target := params.TargetPlan.Price

	amount := target.Sub(current).Mul(remaining).DivRound(cycle, amountPrecision)

	return &Result{
		Amount:                amount,
		IsUpgrade:             amount.IsPositive(),
		FractionRemaining:     remaining.DivRound(cycle, 4),
		CurrentRemainingValue: current.Mul(remaining).DivRound(cycle, amountPrecision),
		TargetRemainingCost:   target.Mul(remaining).DivRound(cycle, amountPrecision),
	}, nil
}

func validateParams(params Params) error {
	if params.CurrentPlan == nil || params.TargetPlan == nil {
		return ierr.NewError("current and target plan are required").
			WithHint("Both plans are required to calculate proration").
			Mark(ierr.ErrValidation)
	}
	if params.CycleLengthDays <= 0 {
		return ierr.NewError("invalid billing cycle length").
			WithHintf("Cycle length must be positive, got %d days", params.CycleLengthDays).
			Mark(ierr.ErrValidation)
	}
	if params.DaysElapsed < 0 || params.DaysElapsed > params.CycleLengthDays {
		return ierr.NewError("days elapsed outside billing cycle").
			WithHintf("Days elapsed must be between 0 and %d", params.CycleLengthDays).
			WithReportableDetails(map[string]any{
				"days_elapsed": params.DaysElapsed,
				"cycle_days":   params.CycleLengthDays,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ElapsedDays derives the position in the current cycle from the account's
// next billing date. The cycle starts one cycle before nextBillingDate; the
// result is clamped to [0, cycleDays].
func ElapsedDays(nextBillingDate time.Time, cycle types.BillingCycle, now time.Time) (elapsed int, cycleDays int) {
	start := cycle.Previous(nextBillingDate)
	cycleDays = calendarDays(start, nextBillingDate)
	elapsed = calendarDays(start, now)

	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > cycleDays {
		elapsed = cycleDays
	}
	return elapsed, cycleDays
}

// calendarDays counts UTC day boundaries crossed from start to end
func calendarDays(start, end time.Time) int {
	s := start.UTC()
	e := end.UTC()
	startDay := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	return int(endDay.Sub(startDay).Hours() / 24)
}
