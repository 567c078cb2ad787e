package service

import (
	"github.com/nexusai/billing/internal/config"
	"github.com/nexusai/billing/internal/domain/account"
	"github.com/nexusai/billing/internal/domain/ledger"
	"github.com/nexusai/billing/internal/domain/plan"
	"github.com/nexusai/billing/internal/domain/proration"
	"github.com/nexusai/billing/internal/gateway"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/metrics"
	"github.com/nexusai/billing/internal/publisher"
	"github.com/nexusai/billing/internal/sentry"
	"github.com/nexusai/billing/internal/store"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     *store.Client

	// Repositories
	PlanRepo        plan.Repository
	AccountRepo     account.Repository
	TransactionRepo ledger.Repository

	// Payments
	Gateway    gateway.Gateway
	Calculator proration.Calculator
	Clock      gateway.Clock
	Locks      *AccountLocks

	// Observability
	EventPublisher publisher.EventPublisher
	Metrics        *metrics.Metrics
	Sentry         *sentry.Service
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db *store.Client,
	planRepo plan.Repository,
	accountRepo account.Repository,
	transactionRepo ledger.Repository,
	gw gateway.Gateway,
	calculator proration.Calculator,
	clock gateway.Clock,
	locks *AccountLocks,
	eventPublisher publisher.EventPublisher,
	metrics *metrics.Metrics,
	sentry *sentry.Service,
) ServiceParams {
	return ServiceParams{
		Logger:          logger,
		Config:          config,
		DB:              db,
		PlanRepo:        planRepo,
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		Gateway:         gw,
		Calculator:      calculator,
		Clock:           clock,
		Locks:           locks,
		EventPublisher:  eventPublisher,
		Metrics:         metrics,
		Sentry:          sentry,
	}
}
