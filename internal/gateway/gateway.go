package gateway

import (
	"context"
	"time"

	"github.com/nexusai/billing/internal/config"
	"github.com/nexusai/billing/internal/domain/account"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/types"
	"github.com/shopspring/decimal"
)

const (
	DeclineReasonNoPaymentMethod = "no payment method on file"
	DeclineReasonCardDeclined    = "card declined"
	DeclineReasonRefundFailed    = "refund rejected by processor"
)

// ChargeRequest asks the processor to collect Amount from Method
type ChargeRequest struct {
	AccountID string
	Amount    decimal.Decimal
	Method    *account.PaymentMethod
	Profile   types.ChargeProfile
}

// RefundRequest asks the processor to return Amount to Method
type RefundRequest struct {
	AccountID string
	Amount    decimal.Decimal
	Method    *account.PaymentMethod
}

// Result is the processor's answer. A decline is a valid result, not an error.
type Result struct {
	Success        bool
	TransactionRef string
	DeclineReason  string
	ProcessedAt    time.Time
}

// Status maps the result onto a ledger status
func (r *Result) Status() types.TransactionStatus {
	if r.Success {
		return types.TransactionStatusSucceeded
	}
	return types.TransactionStatusFailed
}

// Gateway executes charges and refunds. Errors are reserved for transport
// failures and are marked ierr.ErrGatewayUnavailable.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Result, error)
	Refund(ctx context.Context, req RefundRequest) (*Result, error)
}

// Settings tunes the simulated processor
type Settings struct {
	Latency              time.Duration
	OneOffFailureRate    float64
	RecurringFailureRate float64
	RefundFailureRate    float64
}

// SettingsFromConfig reads the gateway section of the configuration
func SettingsFromConfig(cfg *config.Configuration) Settings {
	return Settings{
		Latency:              cfg.Gateway.Latency,
		OneOffFailureRate:    cfg.Gateway.OneOffFailureRate,
		RecurringFailureRate: cfg.Gateway.RecurringFailureRate,
		RefundFailureRate:    cfg.Gateway.RefundFailureRate,
	}
}

// SimulatedGateway stands in for a card processor. Latency and failures come
// from the injected Clock and RandomSource so outcomes are reproducible.
type SimulatedGateway struct {
	settings Settings
	random   RandomSource
	clock    Clock
	logger   *logger.Logger
}

func NewSimulatedGateway(settings Settings, random RandomSource, clock Clock, logger *logger.Logger) *SimulatedGateway {
	return &SimulatedGateway{
		settings: settings,
		random:   random,
		clock:    clock,
		logger:   logger,
	}
}

func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*Result, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	if err := g.wait(ctx, "charge", req.AccountID); err != nil {
		return nil, err
	}

	if req.Method == nil {
		return g.decline(req.AccountID, DeclineReasonNoPaymentMethod), nil
	}

	rate := g.settings.OneOffFailureRate
	if req.Profile == types.ChargeProfileRecurring {
		rate = g.settings.RecurringFailureRate
	}
	if g.random.Float64() < rate {
		return g.decline(req.AccountID, DeclineReasonCardDeclined), nil
	}

	return &Result{
		Success:        true,
		TransactionRef: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_GATEWAY_CHARGE),
		ProcessedAt:    g.clock.Now(),
	}, nil
}

func (g *SimulatedGateway) Refund(ctx context.Context, req RefundRequest) (*Result, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	if err := g.wait(ctx, "refund", req.AccountID); err != nil {
		return nil, err
	}

	if req.Method == nil {
		return g.decline(req.AccountID, DeclineReasonNoPaymentMethod), nil
	}

	if g.random.Float64() < g.settings.RefundFailureRate {
		return g.decline(req.AccountID, DeclineReasonRefundFailed), nil
	}

	return &Result{
		Success:        true,
		TransactionRef: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_GATEWAY_REFUND),
		ProcessedAt:    g.clock.Now(),
	}, nil
}

func (g *SimulatedGateway) wait(ctx context.Context, op, accountID string) error {
	if err := g.clock.Sleep(ctx, g.settings.Latency); err != nil {
		return ierr.WithError(err).
			WithHintf("Payment processor did not answer the %s request", op).
			WithReportableDetails(map[string]any{"account_id": accountID}).
			Mark(ierr.ErrGatewayUnavailable)
	}
	return nil
}

func (g *SimulatedGateway) decline(accountID, reason string) *Result {
	g.logger.Infow("payment declined", "account_id", accountID, "reason", reason)
	return &Result{
		Success:       false,
		DeclineReason: reason,
		ProcessedAt:   g.clock.Now(),
	}
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ierr.NewError("amount must be positive").
			WithHint("Payment amount must be greater than zero").
			WithReportableDetails(map[string]any{"amount": amount.String()}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
