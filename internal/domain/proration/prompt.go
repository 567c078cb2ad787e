package proration

import (
	"time"

	"github.com/shopspring/decimal"
)

// DowngradePrompt asks the account holder how to settle a downgrade credit.
// Issuing one persists nothing; it is only honoured while the account is
// still on CurrentPlanID and the proration still comes to Amount.
type DowngradePrompt struct {
	AccountID     string          `json:"account_id"`
	CurrentPlanID string          `json:"current_plan_id"`
	TargetPlanID  string          `json:"target_plan_id"`
	Amount        decimal.Decimal `json:"amount"`
	IssuedAt      time.Time       `json:"issued_at"`
}
