package api

import (
	"github.com/gin-gonic/gin"
	"github.com/nexusai/billing/internal/api/cron"
	v1 "github.com/nexusai/billing/internal/api/v1"
	"github.com/nexusai/billing/internal/config"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/metrics"
	"github.com/nexusai/billing/internal/rest/middleware"
)

type Handlers struct {
	Health      *v1.HealthHandler
	Plan        *v1.PlanHandler
	Account     *v1.AccountHandler
	PlanChange  *v1.PlanChangeHandler
	Billing     *v1.BillingHandler
	Transaction *v1.TransactionHandler
	CronBilling *cron.BillingCronHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware(cfg),
		middleware.SentryMiddleware(cfg),
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)
	if cfg.Metrics.Enabled && m != nil {
		router.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	router.GET("/health", handlers.Health.Health)

	plans := router.Group("/plans")
	{
		plans.GET("", handlers.Plan.ListPlans)
		plans.GET("/:id", handlers.Plan.GetPlan)
		plans.PUT("/:id", handlers.Plan.UpsertPlan)
	}

	accounts := router.Group("/accounts")
	{
		accounts.POST("", handlers.Account.CreateAccount)
		accounts.GET("", handlers.Account.ListAccounts)
		accounts.GET("/:id", handlers.Account.GetAccount)
		accounts.PUT("/:id/status", handlers.Account.SetStatus)

		accounts.POST("/:id/payment-methods", handlers.Account.AddPaymentMethod)
		accounts.DELETE("/:id/payment-methods/:method_id", handlers.Account.RemovePaymentMethod)
		accounts.PUT("/:id/autopay", handlers.Account.SetAutoPay)

		accounts.POST("/:id/plan", handlers.PlanChange.SwitchPlan)
		accounts.POST("/:id/plan/downgrade", handlers.PlanChange.ResolveDowngrade)
	}

	billing := router.Group("/billing")
	{
		billing.POST("/runs", handlers.Billing.RunBilling)
		billing.GET("/summary", handlers.Billing.GetRevenueSummary)
	}

	transactions := router.Group("/transactions")
	{
		transactions.GET("", handlers.Transaction.ListTransactions)
		transactions.GET("/:id", handlers.Transaction.GetTransaction)
	}

	cronGroup := router.Group("/cron")
	{
		cronGroup.POST("/billing", handlers.CronBilling.RunBillingCycle)
	}
}
