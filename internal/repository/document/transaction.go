package document

import (
	"context"
	"slices"

	"github.com/nexusai/billing/internal/domain/ledger"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/store"
	"github.com/nexusai/billing/internal/types"
)

type transactionRepository struct {
	client *store.Client
	log    *logger.Logger
}

func NewTransactionRepository(client *store.Client, log *logger.Logger) ledger.Repository {
	return &transactionRepository{
		client: client,
		log:    log,
	}
}

// Append stores a new entry. An id that is already in the ledger is rejected
// because entries are never overwritten.
func (r *transactionRepository) Append(ctx context.Context, txn *ledger.Transaction) error {
	if err := txn.Validate(); err != nil {
		return err
	}

	_, err := r.client.Get(ctx, store.CollectionTransactions, txn.ID)
	if err == nil {
		return ierr.NewError("transaction already recorded").
			WithHint("Ledger entries cannot be modified").
			WithReportableDetails(map[string]any{"transaction_id": txn.ID}).
			Mark(ierr.ErrAlreadyExists)
	}
	if !ierr.IsNotFound(err) {
		return err
	}

	data, err := encode(store.CollectionTransactions, txn.ID, txn)
	if err != nil {
		return err
	}

	r.log.Debugw("appending ledger entry",
		"transaction_id", txn.ID,
		"account_id", txn.AccountID,
		"type", txn.Type,
		"status", txn.Status,
		"amount", txn.Amount.String(),
	)
	return r.client.Put(ctx, store.CollectionTransactions, txn.ID, data)
}

func (r *transactionRepository) Get(ctx context.Context, id string) (*ledger.Transaction, error) {
	data, err := r.client.Get(ctx, store.CollectionTransactions, id)
	if err != nil {
		return nil, err
	}
	return decode[ledger.Transaction](store.CollectionTransactions, data)
}

// List filters linearly and returns newest first
func (r *transactionRepository) List(ctx context.Context, filter *types.TransactionFilter) ([]*ledger.Transaction, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	docs, err := r.client.List(ctx, store.CollectionTransactions)
	if err != nil {
		return nil, err
	}

	txns, err := decodeAll[ledger.Transaction](store.CollectionTransactions, docs)
	if err != nil {
		return nil, err
	}

	txns = slices.DeleteFunc(txns, func(t *ledger.Transaction) bool { return !t.Matches(filter) })
	slices.SortFunc(txns, ledger.NewestFirst)

	if filter != nil && filter.Limit > 0 && len(txns) > filter.Limit {
		txns = txns[:filter.Limit]
	}
	return txns, nil
}
