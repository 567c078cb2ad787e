package store_test

import (
	"context"
	"errors"
	"testing"

	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/store"
	"github.com/nexusai/billing/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_WithTxCommitsAtomically(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	client := store.NewClient(backend, logger.NewNoopLogger())

	err := client.WithTx(ctx, func(ctx context.Context) error {
		require.NoError(t, client.Put(ctx, store.CollectionAccounts, "acct_1", []byte(`v1`)))
		require.NoError(t, client.Put(ctx, store.CollectionTransactions, "txn_1", []byte(`t1`)))

		// buffered, not yet visible in the backend
		_, err := backend.Get(ctx, store.CollectionAccounts, "acct_1")
		assert.True(t, ierr.IsNotFound(err))

		// but visible to reads through the client
		got, err := client.Get(ctx, store.CollectionAccounts, "acct_1")
		require.NoError(t, err)
		assert.Equal(t, "v1", string(got))
		return nil
	})
	require.NoError(t, err)

	got, err := backend.Get(ctx, store.CollectionTransactions, "txn_1")
	require.NoError(t, err)
	assert.Equal(t, "t1", string(got))
}

func TestClient_WithTxDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	client := store.NewClient(backend, logger.NewNoopLogger())

	boom := errors.New("boom")
	err := client.WithTx(ctx, func(ctx context.Context) error {
		require.NoError(t, client.Put(ctx, store.CollectionAccounts, "acct_1", []byte(`v1`)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = backend.Get(ctx, store.CollectionAccounts, "acct_1")
	assert.True(t, ierr.IsNotFound(err))
}

func TestClient_NestedTxJoinsOuter(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	client := store.NewClient(backend, logger.NewNoopLogger())

	err := client.WithTx(ctx, func(ctx context.Context) error {
		require.NoError(t, client.WithTx(ctx, func(ctx context.Context) error {
			return client.Put(ctx, store.CollectionAccounts, "acct_1", []byte(`inner`))
		}))
		_, err := backend.Get(ctx, store.CollectionAccounts, "acct_1")
		assert.True(t, ierr.IsNotFound(err))
		return client.Put(ctx, store.CollectionAccounts, "acct_1", []byte(`outer`))
	})
	require.NoError(t, err)

	got, err := backend.Get(ctx, store.CollectionAccounts, "acct_1")
	require.NoError(t, err)
	assert.Equal(t, "outer", string(got))
}

func TestWaitForBackend(t *testing.T) {
	require.NoError(t, store.WaitForBackend(context.Background(), memory.New(), 0, logger.NewNoopLogger()))
}
