package service

import (
	"context"

	"github.com/nexusai/billing/internal/domain/account"
	"github.com/nexusai/billing/internal/domain/ledger"
	"github.com/nexusai/billing/internal/types"
	"github.com/shopspring/decimal"
)

// newTransaction snapshots the account name and method label onto a ledger entry
func (p ServiceParams) newTransaction(
	ctx context.Context,
	a *account.Account,
	txnType types.TransactionType,
	amount decimal.Decimal,
	status types.TransactionStatus,
	label string,
	description string,
) *ledger.Transaction {
	return &ledger.Transaction{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSACTION),
		AccountID:          a.ID,
		AccountName:        a.Name,
		Amount:             amount,
		Date:               p.Clock.Now(),
		Status:             status,
		Type:               txnType,
		PaymentMethodLabel: label,
		Description:        description,
		RunID:              types.GetRunID(ctx),
		CreatedBy:          types.GetActorID(ctx),
	}
}

// afterRecorded runs once the entries are committed. Publishing is best
// effort and never fails the caller.
func (p ServiceParams) afterRecorded(ctx context.Context, txns ...*ledger.Transaction) {
	for _, txn := range txns {
		if p.Metrics != nil {
			p.Metrics.RecordTransaction(txn.Type, txn.Status)
		}
		if p.EventPublisher == nil {
			continue
		}
		if err := p.EventPublisher.Publish(ctx, types.EventTransactionRecorded, txn.AccountID, txn); err != nil {
			p.Logger.Warnw("ledger event not published",
				"transaction_id", txn.ID,
				"account_id", txn.AccountID,
				"error", err,
			)
		}
	}
}
