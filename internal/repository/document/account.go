package document

import (
	"context"
	"slices"
	"strings"

	domainAccount "github.com/nexusai/billing/internal/domain/account"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/store"
	"github.com/nexusai/billing/internal/types"
)

type accountRepository struct {
	client *store.Client
	log    *logger.Logger
}

func NewAccountRepository(client *store.Client, log *logger.Logger) domainAccount.Repository {
	return &accountRepository{
		client: client,
		log:    log,
	}
}

func (r *accountRepository) Create(ctx context.Context, a *domainAccount.Account) error {
	_, err := r.client.Get(ctx, store.CollectionAccounts, a.ID)
	if err == nil {
		return ierr.NewError("account already exists").
			WithHint("An account with this ID already exists").
			WithReportableDetails(map[string]any{"account_id": a.ID}).
			Mark(ierr.ErrAlreadyExists)
	}
	if !ierr.IsNotFound(err) {
		return err
	}

	r.log.Debugw("creating account", "account_id", a.ID, "plan_id", a.PlanID)
	return r.put(ctx, a)
}

func (r *accountRepository) Get(ctx context.Context, id string) (*domainAccount.Account, error) {
	data, err := r.client.Get(ctx, store.CollectionAccounts, id)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.WithError(err).
				WithHintf("Account %s was not found", id).
				WithReportableDetails(map[string]any{"account_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}
	return decode[domainAccount.Account](store.CollectionAccounts, data)
}

// List returns accounts in signup order
func (r *accountRepository) List(ctx context.Context, filter *types.AccountFilter) ([]*domainAccount.Account, error) {
	docs, err := r.client.List(ctx, store.CollectionAccounts)
	if err != nil {
		return nil, err
	}

	accounts, err := decodeAll[domainAccount.Account](store.CollectionAccounts, docs)
	if err != nil {
		return nil, err
	}

	if filter != nil {
		accounts = slices.DeleteFunc(accounts, func(a *domainAccount.Account) bool {
			if filter.Status != nil && a.Status != *filter.Status {
				return true
			}
			return filter.PlanID != "" && a.PlanID != filter.PlanID
		})
	}

	slices.SortStableFunc(accounts, func(a, b *domainAccount.Account) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return accounts, nil
}

func (r *accountRepository) Update(ctx context.Context, a *domainAccount.Account) error {
	if err := a.CheckInvariants(); err != nil {
		r.log.Errorw("refusing to persist account", "account_id", a.ID, "error", err)
		return err
	}
	return r.put(ctx, a)
}

func (r *accountRepository) put(ctx context.Context, a *domainAccount.Account) error {
	data, err := encode(store.CollectionAccounts, a.ID, a)
	if err != nil {
		return err
	}
	return r.client.Put(ctx, store.CollectionAccounts, a.ID, data)
}
