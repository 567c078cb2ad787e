package memory

import (
	"context"
	"testing"

	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetPutList(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Get(ctx, store.CollectionAccounts, "acct_1")
	assert.True(t, ierr.IsNotFound(err))

	data := []byte(`{"id":"acct_1"}`)
	require.NoError(t, s.Put(ctx, store.CollectionAccounts, "acct_1", data))
	require.NoError(t, s.Put(ctx, store.CollectionAccounts, "acct_0", []byte(`{"id":"acct_0"}`)))

	// mutating the caller's slice must not reach the store
	data[2] = 'X'
	got, err := s.Get(ctx, store.CollectionAccounts, "acct_1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"acct_1"}`, string(got))

	all, err := s.List(ctx, store.CollectionAccounts)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, `{"id":"acct_0"}`, string(all[0]))
}

func TestStore_ReplaceAllAndCommit(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Put(ctx, store.CollectionPlans, "old", []byte(`1`)))
	require.NoError(t, s.ReplaceAll(ctx, store.CollectionPlans, map[string][]byte{"a": []byte(`2`), "b": []byte(`3`)}))

	_, err := s.Get(ctx, store.CollectionPlans, "old")
	assert.True(t, ierr.IsNotFound(err))

	require.NoError(t, s.Commit(ctx, []store.Write{
		{Collection: store.CollectionAccounts, ID: "acct_1", Data: []byte(`a`)},
		{Collection: store.CollectionTransactions, ID: "txn_1", Data: []byte(`t`)},
	}))
	got, err := s.Get(ctx, store.CollectionTransactions, "txn_1")
	require.NoError(t, err)
	assert.Equal(t, "t", string(got))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, s.Commit(cancelled, []store.Write{{Collection: store.CollectionAccounts, ID: "acct_2", Data: []byte(`b`)}}))
	_, err = s.Get(ctx, store.CollectionAccounts, "acct_2")
	assert.True(t, ierr.IsNotFound(err))
}
