package repository

import (
	"github.com/nexusai/billing/internal/cache"
	"github.com/nexusai/billing/internal/domain/account"
	"github.com/nexusai/billing/internal/domain/ledger"
	"github.com/nexusai/billing/internal/domain/plan"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/repository/document"
	"github.com/nexusai/billing/internal/store"
)

func NewPlanRepository(client *store.Client, logger *logger.Logger, cache cache.Cache) plan.Repository {
	return document.NewPlanRepository(client, logger, cache)
}

func NewAccountRepository(client *store.Client, logger *logger.Logger) account.Repository {
	return document.NewAccountRepository(client, logger)
}

func NewTransactionRepository(client *store.Client, logger *logger.Logger) ledger.Repository {
	return document.NewTransactionRepository(client, logger)
}
