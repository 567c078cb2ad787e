package types

import (
	"time"

	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/samber/lo"
)

// AccountStatus is the lifecycle state of a billable account
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "Active"
	AccountStatusTrial     AccountStatus = "Trial"
	AccountStatusSuspended AccountStatus = "Suspended"
)

func (s AccountStatus) String() string {
	return string(s)
}

func (s AccountStatus) Validate() error {
	allowed := []AccountStatus{
		AccountStatusActive,
		AccountStatusTrial,
		AccountStatusSuspended,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid account status").
			WithHint("Account status must be Active, Trial or Suspended").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"status":  s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// BillingCycle is the recurring charge interval of an account
type BillingCycle string

const (
	BillingCycleWeekly  BillingCycle = "weekly"
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

func (c BillingCycle) String() string {
	return string(c)
}

func (c BillingCycle) Validate() error {
	allowed := []BillingCycle{
		BillingCycleWeekly,
		BillingCycleMonthly,
		BillingCycleYearly,
	}
	if !lo.Contains(allowed, c) {
		return ierr.NewError("invalid billing cycle").
			WithHint("Billing cycle must be weekly, monthly or yearly").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"cycle":   c,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Next returns the start of the cycle following t.
func (c BillingCycle) Next(t time.Time) time.Time {
	switch c {
	case BillingCycleWeekly:
		return t.AddDate(0, 0, 7)
	case BillingCycleMonthly:
		return AddClampedDate(t, 0, 1, 0)
	case BillingCycleYearly:
		return AddClampedDate(t, 1, 0, 0)
	default:
		return t
	}
}

// Previous returns the start of the cycle that ends at t.
func (c BillingCycle) Previous(t time.Time) time.Time {
	switch c {
	case BillingCycleWeekly:
		return t.AddDate(0, 0, -7)
	case BillingCycleMonthly:
		return AddClampedDate(t, 0, -1, 0)
	case BillingCycleYearly:
		return AddClampedDate(t, -1, 0, 0)
	default:
		return t
	}
}
