package testutil

import (
	"context"
	"time"

	"github.com/nexusai/billing/internal/cache"
	"github.com/nexusai/billing/internal/config"
	"github.com/nexusai/billing/internal/domain/account"
	"github.com/nexusai/billing/internal/domain/ledger"
	"github.com/nexusai/billing/internal/domain/plan"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/metrics"
	"github.com/nexusai/billing/internal/publisher"
	"github.com/nexusai/billing/internal/pubsub"
	"github.com/nexusai/billing/internal/pubsub/memory"
	"github.com/nexusai/billing/internal/repository"
	"github.com/nexusai/billing/internal/store"
	memstore "github.com/nexusai/billing/internal/store/memory"
	"github.com/nexusai/billing/internal/types"
	"github.com/nexusai/billing/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	PlanRepo        plan.Repository
	AccountRepo     account.Repository
	TransactionRepo ledger.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	config    *config.Configuration
	logger    *logger.Logger
	backend   *memstore.Store
	client    *store.Client
	cache     cache.Cache
	stores    Stores
	pubSub    pubsub.PubSub
	publisher publisher.EventPublisher
	metrics   *metrics.Metrics
	gateway   *ScriptedGateway
	clock     *FakeClock
	now       time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo
	cfg.Gateway.Latency = 0
	cfg.Billing.ChargesPerSecond = 0
	cfg.Billing.Schedule = ""
	s.config = cfg

	var err error
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.now = time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC)
	s.clock = NewFakeClock(s.now)
	s.gateway = NewScriptedGateway(s.clock)
	s.metrics = metrics.NewMetrics()
	s.setupStores()

	s.pubSub = memory.NewPubSub(s.config, s.logger)
	s.publisher = publisher.NewEventPublisher(s.pubSub, s.logger)

	if err := s.stores.PlanRepo.ReplaceAll(s.ctx, plan.DefaultCatalog()); err != nil {
		s.T().Fatalf("failed to seed plans: %v", err)
	}
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.backend.Clear()
	s.cache.Flush(s.ctx)
	_ = s.pubSub.Close()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.backend = memstore.New()
	s.client = store.NewClient(s.backend, s.logger)
	s.cache = cache.NewInMemoryCache(s.config, s.logger)
	s.stores = Stores{
		PlanRepo:        repository.NewPlanRepository(s.client, s.logger, s.cache),
		AccountRepo:     repository.NewAccountRepository(s.client, s.logger),
		TransactionRepo: repository.NewTransactionRepository(s.client, s.logger),
	}
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetStoreClient returns the document store client backing the repositories
func (s *BaseServiceTestSuite) GetStoreClient() *store.Client {
	return s.client
}

// GetBackend returns the raw in-memory backend
func (s *BaseServiceTestSuite) GetBackend() *memstore.Store {
	return s.backend
}

func (s *BaseServiceTestSuite) GetPubSub() pubsub.PubSub {
	return s.pubSub
}

func (s *BaseServiceTestSuite) GetPublisher() publisher.EventPublisher {
	return s.publisher
}

func (s *BaseServiceTestSuite) GetMetrics() *metrics.Metrics {
	return s.metrics
}

func (s *BaseServiceTestSuite) GetGateway() *ScriptedGateway {
	return s.gateway
}

func (s *BaseServiceTestSuite) GetClock() *FakeClock {
	return s.clock
}

// GetNow returns the frozen test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

// GetPlan loads a seeded plan and fails the test when it is missing
func (s *BaseServiceTestSuite) GetPlan(id string) *plan.Plan {
	p, err := s.stores.PlanRepo.Get(s.ctx, id)
	s.Require().NoError(err)
	return p
}

// CreateAccount stores a fixture account on planID priced from the catalog
func (s *BaseServiceTestSuite) CreateAccount(name, planID string, opts ...AccountOption) *account.Account {
	p := s.GetPlan(planID)
	a := NewAccount(name, planID, p.Price, s.now, opts...)
	s.Require().NoError(s.stores.AccountRepo.Create(s.ctx, a))
	return a
}

// GetAccount reloads an account from the store
func (s *BaseServiceTestSuite) GetAccount(id string) *account.Account {
	a, err := s.stores.AccountRepo.Get(s.ctx, id)
	s.Require().NoError(err)
	return a
}

// LedgerFor lists an account's transactions newest first
func (s *BaseServiceTestSuite) LedgerFor(accountID string) []*ledger.Transaction {
	txns, err := s.stores.TransactionRepo.List(s.ctx, &types.TransactionFilter{AccountID: accountID})
	s.Require().NoError(err)
	return txns
}
