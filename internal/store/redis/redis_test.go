package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewWithClient(client, "nexus"), mr
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s, mr := setupStore(t)

	require.NoError(t, s.Ping(ctx))

	_, err := s.Get(ctx, store.CollectionAccounts, "acct_1")
	assert.True(t, ierr.IsNotFound(err))

	require.NoError(t, s.Put(ctx, store.CollectionAccounts, "acct_1", []byte(`{"id":"acct_1"}`)))
	got, err := s.Get(ctx, store.CollectionAccounts, "acct_1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"acct_1"}`, string(got))

	assert.Equal(t, `{"id":"acct_1"}`, mr.HGet("nexus:accounts", "acct_1"))
}

func TestStore_ReplaceAllAndList(t *testing.T) {
	ctx := context.Background()
	s, mr := setupStore(t)

	require.NoError(t, s.Put(ctx, store.CollectionPlans, "stale", []byte(`0`)))
	require.NoError(t, s.ReplaceAll(ctx, store.CollectionPlans, map[string][]byte{
		"email_only": []byte(`1`),
		"pro_bundle": []byte(`2`),
	}))

	docs, err := s.List(ctx, store.CollectionPlans)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Empty(t, mr.HGet("nexus:plans", "stale"))
}

func TestStore_Commit(t *testing.T) {
	ctx := context.Background()
	s, mr := setupStore(t)

	require.NoError(t, s.Commit(ctx, []store.Write{
		{Collection: store.CollectionAccounts, ID: "acct_1", Data: []byte(`a`)},
		{Collection: store.CollectionTransactions, ID: "txn_1", Data: []byte(`t`)},
	}))

	assert.Equal(t, "a", mr.HGet("nexus:accounts", "acct_1"))
	assert.Equal(t, "t", mr.HGet("nexus:transactions", "txn_1"))
}

func TestStore_ErrorsAreDatabaseErrors(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	s := NewWithClient(client, "nexus")
	mr.Close()

	err = s.Put(ctx, store.CollectionAccounts, "acct_1", []byte(`a`))
	assert.Error(t, err)
	assert.True(t, ierr.HTTPStatusFromErr(err) >= 500)
	assert.Error(t, s.Ping(ctx))
}
