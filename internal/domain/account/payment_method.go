package account

import (
	"fmt"
	"regexp"
	"time"

	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/types"
)

var (
	last4Pattern  = regexp.MustCompile(`^[0-9]{4}$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
)

// PaymentMethod is a tokenized instrument in an account's vault.
// Only the brand and the last four digits are ever persisted.
type PaymentMethod struct {
	ID        string                  `json:"id"`
	Kind      types.PaymentMethodKind `json:"kind"`
	Brand     string                  `json:"brand"`
	Last4     string                  `json:"last4"`
	Expiry    string                  `json:"expiry,omitempty"`
	IsDefault bool                    `json:"is_default"`
	CreatedAt time.Time               `json:"created_at"`
}

func (m *PaymentMethod) Validate() error {
	if err := m.Kind.Validate(); err != nil {
		return err
	}
	if m.Brand == "" {
		return ierr.NewError("payment method brand is required").
			WithHint("Payment method brand is required").
			Mark(ierr.ErrValidation)
	}
	if m.Kind != types.PaymentMethodKindPaypal && !last4Pattern.MatchString(m.Last4) {
		return ierr.NewError("invalid last4").
			WithHint("Last 4 must be exactly four digits").
			WithReportableDetails(map[string]any{"kind": m.Kind}).
			Mark(ierr.ErrValidation)
	}
	if m.Expiry != "" {
		if m.Kind != types.PaymentMethodKindCard {
			return ierr.NewError("expiry is only valid for cards").
				WithHint("Only cards carry an expiry date").
				WithReportableDetails(map[string]any{"kind": m.Kind}).
				Mark(ierr.ErrValidation)
		}
		if !expiryPattern.MatchString(m.Expiry) {
			return ierr.NewError("invalid expiry").
				WithHint("Expiry must be formatted as MM/YY").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// Label is the denormalized snapshot written on ledger entries, e.g. "Visa •••• 4242"
func (m *PaymentMethod) Label() string {
	if m == nil {
		return types.PaymentMethodLabelUnknown
	}
	if m.Last4 == "" {
		return m.Brand
	}
	return fmt.Sprintf("%s •••• %s", m.Brand, m.Last4)
}
