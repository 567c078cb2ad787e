package ledger

import (
	"context"

	"github.com/nexusai/billing/internal/types"
)

// Repository is append-only: there is no update or delete.
type Repository interface {
	Append(ctx context.Context, txn *Transaction) error
	Get(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context, filter *types.TransactionFilter) ([]*Transaction, error)
}
