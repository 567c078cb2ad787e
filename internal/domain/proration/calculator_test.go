package proration

import (
	"testing"
	"time"

	"github.com/nexusai/billing/internal/domain/plan"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tier(id string, price int64) *plan.Plan {
	return &plan.Plan{ID: id, Name: id, Price: decimal.NewFromInt(price), Period: plan.PeriodWeek}
}

func TestCalculator_Calculate(t *testing.T) {
	emailOnly := tier(plan.PlanIDEmailOnly, 100)
	proBundle := tier(plan.PlanIDProBundle, 500)

	tests := []struct {
		name        string
		params      Params
		wantAmount  string
		wantUpgrade bool
	}{
		{
			name:        "upgrade at day 3 of 7",
			params:      Params{CurrentPlan: emailOnly, TargetPlan: proBundle, CycleLengthDays: 7, DaysElapsed: 3},
			wantAmount:  "228.57",
			wantUpgrade: true,
		},
		{
			name:        "downgrade at day 3 of 7",
			params:      Params{CurrentPlan: proBundle, TargetPlan: emailOnly, CycleLengthDays: 7, DaysElapsed: 3},
			wantAmount:  "-228.57",
			wantUpgrade: false,
		},
		{
			name:        "start of cycle charges the full difference",
			params:      Params{CurrentPlan: emailOnly, TargetPlan: proBundle, CycleLengthDays: 7, DaysElapsed: 0},
			wantAmount:  "400",
			wantUpgrade: true,
		},
		{
			name:        "end of cycle is free",
			params:      Params{CurrentPlan: emailOnly, TargetPlan: proBundle, CycleLengthDays: 7, DaysElapsed: 7},
			wantAmount:  "0",
			wantUpgrade: false,
		},
		{
			name:        "same price is a plain swap",
			params:      Params{CurrentPlan: proBundle, TargetPlan: tier("pro_copy", 500), CycleLengthDays: 30, DaysElapsed: 11},
			wantAmount:  "0",
			wantUpgrade: false,
		},
	}

	calc := NewCalculator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.Calculate(tt.params)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.wantAmount).Equal(result.Amount), "got %s", result.Amount)
			assert.Equal(t, tt.wantUpgrade, result.IsUpgrade)
		})
	}
}

func TestCalculator_Symmetry(t *testing.T) {
	prices := []int64{0, 100, 400, 500, 700, 333}
	calc := NewCalculator()

	for _, cycle := range []int{7, 28, 30, 31, 365} {
		for elapsed := 0; elapsed <= cycle; elapsed += 1 + cycle/10 {
			for _, a := range prices {
				for _, b := range prices {
					ab, err := calc.Calculate(Params{CurrentPlan: tier("a", a), TargetPlan: tier("b", b), CycleLengthDays: cycle, DaysElapsed: elapsed})
					require.NoError(t, err)
					ba, err := calc.Calculate(Params{CurrentPlan: tier("b", b), TargetPlan: tier("a", a), CycleLengthDays: cycle, DaysElapsed: elapsed})
					require.NoError(t, err)
					require.True(t, ab.Amount.Equal(ba.Amount.Neg()), "a=%d b=%d cycle=%d elapsed=%d", a, b, cycle, elapsed)
				}
			}
		}
	}
}

func TestCalculator_InvalidParams(t *testing.T) {
	calc := NewCalculator()
	p := tier("a", 100)

	tests := []struct {
		name   string
		params Params
	}{
		{"missing plan", Params{CurrentPlan: p, CycleLengthDays: 7, DaysElapsed: 1}},
		{"zero cycle", Params{CurrentPlan: p, TargetPlan: p, CycleLengthDays: 0}},
		{"negative elapsed", Params{CurrentPlan: p, TargetPlan: p, CycleLengthDays: 7, DaysElapsed: -1}},
		{"elapsed past cycle", Params{CurrentPlan: p, TargetPlan: p, CycleLengthDays: 7, DaysElapsed: 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Calculate(tt.params)
			assert.True(t, ierr.IsValidation(err))
		})
	}
}

func TestElapsedDays(t *testing.T) {
	next := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		cycle       types.BillingCycle
		now         time.Time
		wantElapsed int
		wantCycle   int
	}{
		{"weekly day 3", types.BillingCycleWeekly, time.Date(2024, time.March, 11, 18, 0, 0, 0, time.UTC), 3, 7},
		{"weekly before cycle clamps to zero", types.BillingCycleWeekly, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), 0, 7},
		{"weekly overdue clamps to cycle", types.BillingCycleWeekly, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), 7, 7},
		{"monthly through leap february", types.BillingCycleMonthly, time.Date(2024, time.February, 25, 0, 0, 0, 0, time.UTC), 10, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elapsed, cycleDays := ElapsedDays(next, tt.cycle, tt.now)
			assert.Equal(t, tt.wantElapsed, elapsed)
			assert.Equal(t, tt.wantCycle, cycleDays)
		})
	}
}
