package store

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/logger"
)

const (
	CollectionPlans        = "plans"
	CollectionAccounts     = "accounts"
	CollectionTransactions = "transactions"
)

// Write is a single document upsert applied as part of a Commit
type Write struct {
	Collection string
	ID         string
	Data       []byte
}

// Backend is a key-value document store partitioned into collections.
// Get returns an ierr.ErrNotFound error for missing documents. Commit
// applies every write or none of them.
type Backend interface {
	Get(ctx context.Context, collection, id string) ([]byte, error)
	List(ctx context.Context, collection string) ([][]byte, error)
	Put(ctx context.Context, collection, id string, data []byte) error
	ReplaceAll(ctx context.Context, collection string, docs map[string][]byte) error
	Commit(ctx context.Context, writes []Write) error
	Ping(ctx context.Context) error
	Close() error
}

// NotFound builds the error backends return for a missing document
func NotFound(collection, id string) error {
	return ierr.NewError("document not found").
		WithHintf("%s %s was not found", collection, id).
		WithReportableDetails(map[string]any{
			"collection": collection,
			"id":         id,
		}).
		Mark(ierr.ErrNotFound)
}

// WaitForBackend pings the backend with exponential backoff until it answers
// or timeout elapses.
func WaitForBackend(ctx context.Context, b Backend, timeout time.Duration, log *logger.Logger) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxInterval = 5 * time.Second
	policy.MaxElapsedTime = timeout

	attempt := 0
	op := func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := b.Ping(pingCtx); err != nil {
			log.Warnw("store not ready", "attempt", attempt, "error", err)
			return err
		}
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return ierr.WithError(err).
			WithHint("Document store is unreachable").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
