package service

import (
	"sync"

	ierr "github.com/nexusai/billing/internal/errors"
)

// AccountLocks serializes read-modify-write of an account document and
// guards against two gateway calls for the same account at once.
type AccountLocks struct {
	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	inFlight sync.Map
}

func NewAccountLocks() *AccountLocks {
	return &AccountLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock blocks until the account's mutex is held and returns its release
func (l *AccountLocks) Lock(accountID string) (unlock func()) {
	l.mu.Lock()
	m, ok := l.locks[accountID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[accountID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// BeginCharge marks a gateway call as outstanding for the account. It does
// not wait: a second caller gets ErrInvalidOperation until done is called.
func (l *AccountLocks) BeginCharge(accountID string) (done func(), err error) {
	if _, loaded := l.inFlight.LoadOrStore(accountID, struct{}{}); loaded {
		return nil, ierr.NewError("charge already in flight").
			WithHint("Another payment for this account is still being processed").
			WithReportableDetails(map[string]any{"account_id": accountID}).
			Mark(ierr.ErrInvalidOperation)
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.inFlight.Delete(accountID) })
	}, nil
}
