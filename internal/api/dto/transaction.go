package dto

import (
	"github.com/nexusai/billing/internal/domain/ledger"
)

type TransactionResponse struct {
	*ledger.Transaction
}

type ListTransactionsResponse = ListResponse[*ledger.Transaction]
