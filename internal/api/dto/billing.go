package dto

import (
	"github.com/nexusai/billing/internal/domain/billing"
	"github.com/nexusai/billing/internal/domain/ledger"
	"github.com/nexusai/billing/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// RunBillingRequest triggers a run. An empty AccountIDs runs every account.
type RunBillingRequest struct {
	AccountIDs []string `json:"account_ids,omitempty" validate:"omitempty,dive,required"`
}

type AccountErrorResponse struct {
	AccountID string `json:"account_id"`
	Message   string `json:"message"`
}

type BillingRunResponse struct {
	*billing.BatchResult
	Summary *types.BillingRunCompletedPayload `json:"summary"`
	Errors  []*AccountErrorResponse           `json:"errors"`
}

func NewBillingRunResponse(result *billing.BatchResult) *BillingRunResponse {
	if result.Transactions == nil {
		result.Transactions = []*ledger.Transaction{}
	}
	return &BillingRunResponse{
		BatchResult: result,
		Summary:     result.Summary(),
		Errors: lo.Map(result.Errors, func(e *billing.AccountError, _ int) *AccountErrorResponse {
			return &AccountErrorResponse{AccountID: e.AccountID, Message: e.Err.Error()}
		}),
	}
}

// RevenueSummaryResponse is the admin revenue overview
type RevenueSummaryResponse struct {
	TotalMRR          decimal.Decimal             `json:"total_mrr"`
	AccountsByStatus  map[types.AccountStatus]int `json:"accounts_by_status"`
	CollectedRevenue  decimal.Decimal             `json:"collected_revenue"`
	RefundedAmount    decimal.Decimal             `json:"refunded_amount"`
	StoreCreditIssued decimal.Decimal             `json:"store_credit_issued"`
	FailedCharges     int                         `json:"failed_charges"`
}
