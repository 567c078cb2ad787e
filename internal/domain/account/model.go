package account

import (
	"slices"
	"strings"
	"time"

	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Account is anything that is billed on a recurring cycle. Payment methods
// are embedded in the account document and kept in insertion order.
type Account struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	OwnerName       string              `json:"owner_name"`
	Email           string              `json:"email"`
	PlanID          string              `json:"plan_id"`
	Status          types.AccountStatus `json:"status"`
	MRR             decimal.Decimal     `json:"mrr"`
	BillingCycle    types.BillingCycle  `json:"billing_cycle"`
	NextBillingDate time.Time           `json:"next_billing_date"`
	PaymentMethods  []*PaymentMethod    `json:"payment_methods"`
	AutoPay         bool                `json:"auto_pay"`
	Credits         decimal.Decimal     `json:"credits"`
	JoinedAt        time.Time           `json:"joined_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func (a *Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ierr.NewError("account name is required").
			WithHint("Account name is required").
			Mark(ierr.ErrValidation)
	}
	if a.PlanID == "" {
		return ierr.NewError("plan id is required").
			WithHint("An account must be on a plan").
			Mark(ierr.ErrValidation)
	}
	if err := a.Status.Validate(); err != nil {
		return err
	}
	if err := a.BillingCycle.Validate(); err != nil {
		return err
	}
	if a.MRR.IsNegative() {
		return ierr.NewError("mrr must be non-negative").
			WithHint("Recurring charge cannot be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CheckInvariants is the self-check run before an account is persisted.
// A failure means the engine itself produced a bad state.
func (a *Account) CheckInvariants() error {
	defaults := lo.CountBy(a.PaymentMethods, func(m *PaymentMethod) bool { return m.IsDefault })
	if defaults > 1 {
		return ierr.NewError("multiple default payment methods").
			WithHint("Account has more than one default payment method").
			WithReportableDetails(map[string]any{
				"account_id": a.ID,
				"defaults":   defaults,
			}).
			Mark(ierr.ErrInvariantViolation)
	}
	if a.Credits.IsNegative() {
		return ierr.NewError("negative credit balance").
			WithHint("Account credit balance went negative").
			WithReportableDetails(map[string]any{
				"account_id": a.ID,
				"credits":    a.Credits.String(),
			}).
			Mark(ierr.ErrInvariantViolation)
	}
	return nil
}

// AddPaymentMethod inserts m into the vault. The first method of an empty
// vault is always the default; a new default clears every other default.
func (a *Account) AddPaymentMethod(m *PaymentMethod) error {
	if lo.ContainsBy(a.PaymentMethods, func(existing *PaymentMethod) bool { return existing.ID == m.ID }) {
		return ierr.NewError("payment method already exists").
			WithHint("Payment method already exists on this account").
			WithReportableDetails(map[string]any{"payment_method_id": m.ID}).
			Mark(ierr.ErrAlreadyExists)
	}

	if len(a.PaymentMethods) == 0 {
		m.IsDefault = true
	} else if m.IsDefault {
		for _, existing := range a.PaymentMethods {
			existing.IsDefault = false
		}
	}

	a.PaymentMethods = append(a.PaymentMethods, m)
	return nil
}

// RemovePaymentMethod drops a method from the vault and applies the
// promotion policy when the removed method was the default.
func (a *Account) RemovePaymentMethod(methodID string, policy types.DefaultPromotionPolicy) (*PaymentMethod, error) {
	idx := slices.IndexFunc(a.PaymentMethods, func(m *PaymentMethod) bool { return m.ID == methodID })
	if idx < 0 {
		return nil, ierr.NewError("payment method not found").
			WithHint("Payment method not found on this account").
			WithReportableDetails(map[string]any{
				"account_id":        a.ID,
				"payment_method_id": methodID,
			}).
			Mark(ierr.ErrNotFound)
	}

	removed := a.PaymentMethods[idx]
	a.PaymentMethods = slices.Delete(a.PaymentMethods, idx, idx+1)

	if removed.IsDefault && policy == types.DefaultPromotionFirst && len(a.PaymentMethods) > 0 {
		a.PaymentMethods[0].IsDefault = true
	}
	return removed, nil
}

// DefaultPaymentMethod returns the flagged default, falling back to the
// first method on file. Nil when the vault is empty.
func (a *Account) DefaultPaymentMethod() *PaymentMethod {
	if m, ok := lo.Find(a.PaymentMethods, func(m *PaymentMethod) bool { return m.IsDefault }); ok {
		return m
	}
	if len(a.PaymentMethods) > 0 {
		return a.PaymentMethods[0]
	}
	return nil
}

// PaymentMethod looks up a method by id
func (a *Account) PaymentMethod(methodID string) (*PaymentMethod, error) {
	m, ok := lo.Find(a.PaymentMethods, func(m *PaymentMethod) bool { return m.ID == methodID })
	if !ok {
		return nil, ierr.NewError("payment method not found").
			WithHint("Payment method not found on this account").
			WithReportableDetails(map[string]any{
				"account_id":        a.ID,
				"payment_method_id": methodID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return m, nil
}

// IsBillable reports whether the recurring runner should charge the account
func (a *Account) IsBillable() bool {
	return a.Status == types.AccountStatusActive && a.MRR.IsPositive()
}

// CurrentCycleStart is the start of the cycle that ends at NextBillingDate
func (a *Account) CurrentCycleStart() time.Time {
	return a.BillingCycle.Previous(a.NextBillingDate)
}

// Clone returns a deep copy so callers can mutate without touching shared state
func (a *Account) Clone() *Account {
	clone := *a
	clone.PaymentMethods = lo.Map(a.PaymentMethods, func(m *PaymentMethod, _ int) *PaymentMethod {
		copied := *m
		return &copied
	})
	return &clone
}
