package service

import (
	"context"

	"github.com/nexusai/billing/internal/api/dto"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/types"
)

type TransactionService interface {
	// ListTransactions returns ledger entries newest first
	ListTransactions(ctx context.Context, filter *types.TransactionFilter) (*dto.ListTransactionsResponse, error)
	GetTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error)
}

type transactionService struct {
	ServiceParams
}

func NewTransactionService(params ServiceParams) TransactionService {
	return &transactionService{ServiceParams: params}
}

func (s *transactionService) ListTransactions(ctx context.Context, filter *types.TransactionFilter) (*dto.ListTransactionsResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	if filter != nil && filter.AccountID != "" {
		// unknown accounts are a 404, not an empty ledger
		if _, err := s.AccountRepo.Get(ctx, filter.AccountID); err != nil {
			return nil, err
		}
	}

	txns, err := s.TransactionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewListResponse(txns), nil
}

func (s *transactionService) GetTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	if id == "" {
		return nil, ierr.NewError("transaction_id is required").
			WithHint("Transaction ID is required").
			Mark(ierr.ErrValidation)
	}

	txn, err := s.TransactionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.TransactionResponse{Transaction: txn}, nil
}
