package types

import (
	"encoding/json"
	"time"
)

// EventName identifies a billing event. It doubles as the pubsub topic.
type EventName string

const (
	EventTransactionRecorded EventName = "transaction.recorded"
	EventBillingRunCompleted EventName = "billing.run.completed"
)

func (e EventName) String() string {
	return string(e)
}

// BillingEvent is the envelope every billing event is published in
type BillingEvent struct {
	ID        string          `json:"id"`
	EventName EventName       `json:"event_name"`
	Timestamp time.Time       `json:"timestamp"`
	AccountID string          `json:"account_id,omitempty"`
	RunID     string          `json:"run_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

// BillingRunCompletedPayload summarizes one pass of the recurring runner
type BillingRunCompletedPayload struct {
	RunID      string    `json:"run_id"`
	Accounts   int       `json:"accounts"`
	Charged    int       `json:"charged"`
	Declined   int       `json:"declined"`
	Skipped    int       `json:"skipped"`
	Errors     int       `json:"errors"`
	Cancelled  int       `json:"cancelled"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
