package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexusai/billing/internal/api"
	"github.com/nexusai/billing/internal/api/cron"
	v1 "github.com/nexusai/billing/internal/api/v1"
	"github.com/nexusai/billing/internal/cache"
	"github.com/nexusai/billing/internal/config"
	"github.com/nexusai/billing/internal/domain/proration"
	"github.com/nexusai/billing/internal/gateway"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/metrics"
	"github.com/nexusai/billing/internal/postgres"
	"github.com/nexusai/billing/internal/publisher"
	"github.com/nexusai/billing/internal/pubsub"
	"github.com/nexusai/billing/internal/pubsub/memory"
	"github.com/nexusai/billing/internal/repository"
	"github.com/nexusai/billing/internal/scheduler"
	"github.com/nexusai/billing/internal/sentry"
	"github.com/nexusai/billing/internal/service"
	"github.com/nexusai/billing/internal/store"
	memstore "github.com/nexusai/billing/internal/store/memory"
	redisstore "github.com/nexusai/billing/internal/store/redis"
	"github.com/nexusai/billing/internal/types"
	"github.com/nexusai/billing/internal/validator"
	"go.uber.org/fx"
)

// @title Nexus Billing API
// @version 1.0
// @description Subscription billing for the Nexus AI assistant plans
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Metrics
			metrics.NewMetrics,

			// Cache
			cache.NewInMemoryCache,

			// Document store
			provideBackend,
			store.NewClient,

			// Events
			memory.NewPubSub,
			publisher.NewEventPublisher,

			// Repositories
			repository.NewPlanRepository,
			repository.NewAccountRepository,
			repository.NewTransactionRepository,

			// Payments
			provideClock,
			provideGateway,
			proration.NewCalculator,
			service.NewAccountLocks,
		),
	)

	// Error reporting
	opts = append(opts, sentry.Module())

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewPlanService,
			service.NewAccountService,
			service.NewPaymentMethodService,
			service.NewPlanChangeService,
			service.NewBillingService,
			service.NewTransactionService,

			provideScheduler,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			registerBackendHooks,
			seedPlans,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

// provideBackend opens the configured document store and waits until it answers
func provideBackend(cfg *config.Configuration, log *logger.Logger) (store.Backend, error) {
	ctx := context.Background()

	switch cfg.Store.Backend {
	case types.StoreBackendMemory:
		log.Info("using in-memory document store")
		return memstore.New(), nil

	case types.StoreBackendRedis:
		log.Infow("using redis document store", "address", cfg.Redis.Address)
		backend := redisstore.New(cfg.Redis)
		if err := store.WaitForBackend(ctx, backend, cfg.Store.ConnectTimeout, log); err != nil {
			_ = backend.Close()
			return nil, err
		}
		return backend, nil

	case types.StoreBackendPostgres:
		log.Infow("using postgres document store", "host", cfg.Postgres.Host, "db", cfg.Postgres.DBName)
		db, err := postgres.NewDB(cfg, log)
		if err != nil {
			return nil, err
		}
		backend := postgres.NewDocumentStore(db)
		if err := store.WaitForBackend(ctx, backend, cfg.Store.ConnectTimeout, log); err != nil {
			_ = backend.Close()
			return nil, err
		}
		if err := backend.Migrate(ctx); err != nil {
			_ = backend.Close()
			return nil, err
		}
		return backend, nil

	default:
		return nil, errors.New("unknown store backend: " + string(cfg.Store.Backend))
	}
}

func provideClock() gateway.Clock {
	return gateway.NewSystemClock()
}

func provideGateway(cfg *config.Configuration, clock gateway.Clock, log *logger.Logger) gateway.Gateway {
	return gateway.NewSimulatedGateway(
		gateway.SettingsFromConfig(cfg),
		gateway.NewRandomSource(cfg.Gateway.Seed),
		clock,
		log,
	)
}

func provideScheduler(cfg *config.Configuration, billingService service.BillingService, log *logger.Logger) *scheduler.Scheduler {
	return scheduler.NewScheduler(cfg, billingService, log)
}

func provideHandlers(
	logger *logger.Logger,
	backend store.Backend,
	planService service.PlanService,
	accountService service.AccountService,
	paymentMethodService service.PaymentMethodService,
	planChangeService service.PlanChangeService,
	billingService service.BillingService,
	transactionService service.TransactionService,
	sched *scheduler.Scheduler,
) api.Handlers {
	return api.Handlers{
		Health:      v1.NewHealthHandler(backend, logger),
		Plan:        v1.NewPlanHandler(planService, logger),
		Account:     v1.NewAccountHandler(accountService, paymentMethodService, logger),
		PlanChange:  v1.NewPlanChangeHandler(planChangeService, logger),
		Billing:     v1.NewBillingHandler(billingService, logger),
		Transaction: v1.NewTransactionHandler(transactionService, logger),
		CronBilling: cron.NewBillingCronHandler(sched, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger, m *metrics.Metrics) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger, m)
}

func registerBackendHooks(lc fx.Lifecycle, backend store.Backend, ps pubsub.PubSub, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := ps.Close(); err != nil {
				log.Warnw("failed to close pubsub", "error", err)
			}
			return backend.Close()
		},
	})
}

func seedPlans(lc fx.Lifecycle, cfg *config.Configuration, planService service.PlanService, log *logger.Logger) {
	if !cfg.Billing.SeedPlans {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("seeding default plans")
			return planService.SeedDefaultPlans(ctx)
		},
	})
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	sched *scheduler.Scheduler,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		startAPIServer(lc, r, cfg, log)
		scheduler.RegisterHooks(lc, sched)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeScheduler:
		if !sched.Enabled() {
			log.Fatal("billing.schedule is required in scheduler mode")
		}
		scheduler.RegisterHooks(lc, sched)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}
