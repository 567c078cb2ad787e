package billing

import (
	"time"

	"github.com/nexusai/billing/internal/domain/ledger"
	"github.com/nexusai/billing/internal/types"
	"github.com/samber/lo"
)

// AccountResult is what happened to one account in a run
type AccountResult struct {
	AccountID       string                 `json:"account_id"`
	AccountName     string                 `json:"account_name"`
	Status          types.AccountRunStatus `json:"status"`
	Transaction     *ledger.Transaction    `json:"transaction,omitempty"`
	NextBillingDate time.Time              `json:"next_billing_date"`
	Reason          string                 `json:"reason,omitempty"`
}

// AccountError is an infrastructure failure isolated to one account. It
// never carries a ledger entry.
type AccountError struct {
	AccountID string `json:"account_id"`
	Err       error  `json:"-"`
}

func (e *AccountError) Error() string {
	return e.AccountID + ": " + e.Err.Error()
}

func (e *AccountError) Unwrap() error {
	return e.Err
}

// BatchResult is the outcome of one billing run. Accounts keeps the order
// of the input; Transactions holds every entry the run appended, in the
// same order.
type BatchResult struct {
	RunID        string                `json:"run_id"`
	Accounts     []*AccountResult      `json:"accounts"`
	Transactions []*ledger.Transaction `json:"transactions"`
	Errors       []*AccountError       `json:"-"`
	StartedAt    time.Time             `json:"started_at"`
	FinishedAt   time.Time             `json:"finished_at"`
}

// Count returns how many accounts ended with status
func (r *BatchResult) Count(status types.AccountRunStatus) int {
	return lo.CountBy(r.Accounts, func(a *AccountResult) bool { return a.Status == status })
}

// Summary flattens the result into the run-completed event payload
func (r *BatchResult) Summary() *types.BillingRunCompletedPayload {
	return &types.BillingRunCompletedPayload{
		RunID:      r.RunID,
		Accounts:   len(r.Accounts),
		Charged:    r.Count(types.AccountRunStatusCharged),
		Declined:   r.Count(types.AccountRunStatusDeclined),
		Skipped:    r.Count(types.AccountRunStatusSkipped),
		Errors:     r.Count(types.AccountRunStatusError),
		Cancelled:  r.Count(types.AccountRunStatusCancelled),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}
