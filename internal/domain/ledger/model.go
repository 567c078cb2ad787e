package ledger

import (
	"time"

	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/types"
	"github.com/shopspring/decimal"
)

// Transaction is an immutable ledger entry. Amount is never negative,
// the direction is carried by Type.
type Transaction struct {
	ID                 string                  `json:"id"`
	AccountID          string                  `json:"account_id"`
	AccountName        string                  `json:"account_name"`
	Amount             decimal.Decimal         `json:"amount"`
	Date               time.Time               `json:"date"`
	Status             types.TransactionStatus `json:"status"`
	Type               types.TransactionType   `json:"type"`
	PaymentMethodLabel string                  `json:"payment_method_label"`
	GatewayRef         string                  `json:"gateway_ref,omitempty"`
	FailureReason      string                  `json:"failure_reason,omitempty"`
	Description        string                  `json:"description,omitempty"`
	RunID              string                  `json:"run_id,omitempty"`
	CreatedBy          string                  `json:"created_by"`
}

func (t *Transaction) Validate() error {
	if t.ID == "" || t.AccountID == "" {
		return ierr.NewError("transaction id and account id are required").
			WithHint("Transaction must reference an account").
			Mark(ierr.ErrValidation)
	}
	if t.Amount.IsNegative() {
		return ierr.NewError("transaction amount must be non-negative").
			WithHint("Transaction amount cannot be negative").
			WithReportableDetails(map[string]any{
				"transaction_id": t.ID,
				"amount":         t.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	return t.Status.Validate()
}

// Matches reports whether the transaction passes every set field of the filter
func (t *Transaction) Matches(f *types.TransactionFilter) bool {
	if f == nil {
		return true
	}
	if f.AccountID != "" && t.AccountID != f.AccountID {
		return false
	}
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.StartTime != nil && t.Date.Before(*f.StartTime) {
		return false
	}
	if f.EndTime != nil && t.Date.After(*f.EndTime) {
		return false
	}
	return true
}

// NewestFirst orders ledger entries by date descending, breaking ties by id
// descending so that entries created in the same instant keep creation order.
func NewestFirst(a, b *Transaction) int {
	if c := b.Date.Compare(a.Date); c != 0 {
		return c
	}
	switch {
	case a.ID > b.ID:
		return -1
	case a.ID < b.ID:
		return 1
	default:
		return 0
	}
}
