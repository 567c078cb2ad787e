package account

import (
	"context"

	"github.com/nexusai/billing/internal/types"
)

// Repository defines the interface for account persistence
type Repository interface {
	Create(ctx context.Context, account *Account) error
	Get(ctx context.Context, id string) (*Account, error)
	List(ctx context.Context, filter *types.AccountFilter) ([]*Account, error)
	Update(ctx context.Context, account *Account) error
}
