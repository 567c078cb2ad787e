package types

import (
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/samber/lo"
)

// PaymentMethodKind is the instrument type stored in an account's vault
type PaymentMethodKind string

const (
	PaymentMethodKindCard        PaymentMethodKind = "card"
	PaymentMethodKindBankAccount PaymentMethodKind = "bank_account"
	PaymentMethodKindPaypal      PaymentMethodKind = "paypal"
)

func (k PaymentMethodKind) String() string {
	return string(k)
}

func (k PaymentMethodKind) Validate() error {
	allowed := []PaymentMethodKind{
		PaymentMethodKindCard,
		PaymentMethodKindBankAccount,
		PaymentMethodKindPaypal,
	}
	if !lo.Contains(allowed, k) {
		return ierr.NewError("invalid payment method kind").
			WithHint("Payment method kind must be card, bank_account or paypal").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"kind":    k,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CardBrand is the network a card number belongs to
type CardBrand string

const (
	CardBrandVisa       CardBrand = "Visa"
	CardBrandMasterCard CardBrand = "MasterCard"
	CardBrandAmex       CardBrand = "Amex"
	CardBrandDiscover   CardBrand = "Discover"
	CardBrandUnknown    CardBrand = "Unknown"
)

func (b CardBrand) String() string {
	return string(b)
}

// ChargeProfile selects the failure profile the gateway applies to a charge
type ChargeProfile string

const (
	// ChargeProfileOneOff is used for customer initiated charges such as upgrades
	ChargeProfileOneOff ChargeProfile = "one_off"
	// ChargeProfileRecurring is used by the billing cycle runner
	ChargeProfileRecurring ChargeProfile = "recurring"
)

func (p ChargeProfile) String() string {
	return string(p)
}
