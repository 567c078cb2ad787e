package service

import (
	"sync"
	"sync/atomic"
	"testing"

	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginChargeRejectsSecondCaller(t *testing.T) {
	locks := NewAccountLocks()

	done, err := locks.BeginCharge("acct_1")
	require.NoError(t, err)

	_, err = locks.BeginCharge("acct_1")
	assert.True(t, ierr.IsInvalidOperation(err))

	other, err := locks.BeginCharge("acct_2")
	require.NoError(t, err)
	other()

	done()
	done()

	again, err := locks.BeginCharge("acct_1")
	require.NoError(t, err)
	again()
}

func TestLockSerializesPerAccount(t *testing.T) {
	locks := NewAccountLocks()

	var (
		wg      sync.WaitGroup
		active  atomic.Int32
		maxSeen atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("acct_1")
			defer unlock()

			n := active.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			active.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
}
