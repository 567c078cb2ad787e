package types

import (
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/samber/lo"
)

// TransactionType is the direction of a ledger entry
type TransactionType string

const (
	TransactionTypeCharge           TransactionType = "charge"
	TransactionTypeRefund           TransactionType = "refund"
	TransactionTypeCreditAdjustment TransactionType = "credit_adjustment"
)

func (t TransactionType) String() string {
	return string(t)
}

func (t TransactionType) Validate() error {
	allowed := []TransactionType{
		TransactionTypeCharge,
		TransactionTypeRefund,
		TransactionTypeCreditAdjustment,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid transaction type").
			WithHint("Transaction type must be charge, refund or credit_adjustment").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"type":    t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TransactionStatus is the outcome of a ledger entry
type TransactionStatus string

const (
	TransactionStatusSucceeded TransactionStatus = "succeeded"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusPending   TransactionStatus = "pending"
)

func (s TransactionStatus) String() string {
	return string(s)
}

func (s TransactionStatus) Validate() error {
	allowed := []TransactionStatus{
		TransactionStatusSucceeded,
		TransactionStatusFailed,
		TransactionStatusPending,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid transaction status").
			WithHint("Transaction status must be succeeded, failed or pending").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"status":  s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SettlementChoice is how a downgrade credit is returned to the account
type SettlementChoice string

const (
	SettlementChoiceStoreCredit    SettlementChoice = "store_credit"
	SettlementChoiceRefundToMethod SettlementChoice = "refund"
)

func (c SettlementChoice) String() string {
	return string(c)
}

func (c SettlementChoice) Validate() error {
	allowed := []SettlementChoice{
		SettlementChoiceStoreCredit,
		SettlementChoiceRefundToMethod,
	}
	if !lo.Contains(allowed, c) {
		return ierr.NewError("invalid settlement choice").
			WithHint("Settlement must be store_credit or refund").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"choice":  c,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

const (
	// PaymentMethodLabelSystemCredit labels ledger entries that never touch a payment method
	PaymentMethodLabelSystemCredit = "System Credit"
	// PaymentMethodLabelUnknown labels charges attempted without any method on file
	PaymentMethodLabelUnknown = "Unknown Method"
)
