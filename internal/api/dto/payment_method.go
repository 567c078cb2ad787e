package dto

import (
	"strings"
	"time"

	"github.com/nexusai/billing/internal/domain/account"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/gateway"
	"github.com/nexusai/billing/internal/types"
	"github.com/nexusai/billing/internal/validator"
)

// AddPaymentMethodRequest carries a raw instrument. Card numbers are never
// stored: only the classified brand and the last four digits survive
// ToPaymentMethod.
type AddPaymentMethodRequest struct {
	Kind       types.PaymentMethodKind `json:"kind" validate:"required"`
	CardNumber string                  `json:"card_number,omitempty"`
	Expiry     string                  `json:"expiry,omitempty"`
	// Brand is the bank or wallet name for non-card methods
	Brand     string `json:"brand,omitempty" validate:"max=50"`
	Last4     string `json:"last4,omitempty"`
	IsDefault bool   `json:"is_default"`
}

func (r *AddPaymentMethodRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.Kind.Validate(); err != nil {
		return err
	}

	switch r.Kind {
	case types.PaymentMethodKindCard:
		if strings.TrimSpace(r.CardNumber) == "" {
			return ierr.NewError("card number is required").
				WithHint("Card number is required").
				Mark(ierr.ErrValidation)
		}
		if !gateway.ValidateCardNumber(r.CardNumber) {
			return ierr.NewError("card number failed validation").
				WithHint("Card number is invalid").
				Mark(ierr.ErrValidation)
		}
	case types.PaymentMethodKindBankAccount:
		if strings.TrimSpace(r.Brand) == "" {
			return ierr.NewError("bank name is required").
				WithHint("Bank name is required for bank accounts").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// ToPaymentMethod builds the vault entry. The result is validated by the
// domain model, so a bad expiry or last4 is rejected here too.
func (r *AddPaymentMethodRequest) ToPaymentMethod(now time.Time) (*account.PaymentMethod, error) {
	m := &account.PaymentMethod{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_METHOD),
		Kind:      r.Kind,
		Brand:     strings.TrimSpace(r.Brand),
		Last4:     r.Last4,
		Expiry:    r.Expiry,
		IsDefault: r.IsDefault,
		CreatedAt: now,
	}

	switch r.Kind {
	case types.PaymentMethodKindCard:
		digits := gateway.NormalizeCardNumber(r.CardNumber)
		m.Brand = gateway.ClassifyBrand(digits).String()
		m.Last4 = gateway.LastFour(digits)
	case types.PaymentMethodKindPaypal:
		if m.Brand == "" {
			m.Brand = "PayPal"
		}
		m.Last4 = ""
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

type SetAutoPayRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func (r *SetAutoPayRequest) Validate() error {
	return validator.ValidateRequest(r)
}
