package testutil

import (
	"time"

	"github.com/nexusai/billing/internal/domain/account"
	"github.com/nexusai/billing/internal/types"
	"github.com/shopspring/decimal"
)

// AccountOption customizes a fixture account before it is stored
type AccountOption func(*account.Account)

func WithStatus(status types.AccountStatus) AccountOption {
	return func(a *account.Account) { a.Status = status }
}

func WithMRR(mrr decimal.Decimal) AccountOption {
	return func(a *account.Account) { a.MRR = mrr }
}

func WithCredits(credits decimal.Decimal) AccountOption {
	return func(a *account.Account) { a.Credits = credits }
}

func WithNextBillingDate(t time.Time) AccountOption {
	return func(a *account.Account) { a.NextBillingDate = t }
}

// WithMethods replaces the vault. Defaults are taken as given.
func WithMethods(methods ...*account.PaymentMethod) AccountOption {
	return func(a *account.Account) { a.PaymentMethods = methods }
}

func NewCard(id, brand, last4 string, isDefault bool) *account.PaymentMethod {
	return &account.PaymentMethod{
		ID:        id,
		Kind:      types.PaymentMethodKindCard,
		Brand:     brand,
		Last4:     last4,
		Expiry:    "12/29",
		IsDefault: isDefault,
	}
}

func NewBankAccount(id, bank, last4 string, isDefault bool) *account.PaymentMethod {
	return &account.PaymentMethod{
		ID:        id,
		Kind:      types.PaymentMethodKindBankAccount,
		Brand:     bank,
		Last4:     last4,
		IsDefault: isDefault,
	}
}

// NewAccount builds an Active weekly account with one default Visa card
// whose current cycle started at now.
func NewAccount(name, planID string, price decimal.Decimal, now time.Time, opts ...AccountOption) *account.Account {
	a := &account.Account{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ACCOUNT),
		Name:            name,
		OwnerName:       name + " Owner",
		Email:           "billing@example.com",
		PlanID:          planID,
		Status:          types.AccountStatusActive,
		MRR:             price,
		BillingCycle:    types.BillingCycleWeekly,
		NextBillingDate: now.AddDate(0, 0, 7),
		PaymentMethods: []*account.PaymentMethod{
			NewCard(types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_METHOD), string(types.CardBrandVisa), "4242", true),
		},
		AutoPay:  true,
		Credits:  decimal.Zero,
		JoinedAt: now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
