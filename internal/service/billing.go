package service

import (
	"context"
	"time"

	"github.com/nexusai/billing/internal/api/dto"
	"github.com/nexusai/billing/internal/domain/account"
	"github.com/nexusai/billing/internal/domain/billing"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/gateway"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"
)

// BillingService runs the recurring charge batch and reports on revenue
type BillingService interface {
	// RunCycle charges every billable account in accounts. Results keep the
	// input order. On cancellation the partial result is returned together
	// with the context error.
	RunCycle(ctx context.Context, accounts []*account.Account) (*billing.BatchResult, error)
	RunBillingCycleForAll(ctx context.Context) (*billing.BatchResult, error)
	RunBillingCycle(ctx context.Context, req dto.RunBillingRequest) (*dto.BillingRunResponse, error)
	GetRevenueSummary(ctx context.Context) (*dto.RevenueSummaryResponse, error)
}

type billingService struct {
	ServiceParams
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{ServiceParams: params}
}

const (
	skipReasonInactive = "account is not active"
	skipReasonNoMRR    = "no recurring charge"
	cancelReason       = "run cancelled before the account was started"
)

// runSlot is one worker's output, written at the account's input index
type runSlot struct {
	result *billing.AccountResult
	err    error
}

func (s *billingService) RunCycle(ctx context.Context, accounts []*account.Account) (*billing.BatchResult, error) {
	runID := types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BILLING_RUN)
	ctx = types.SetRunID(ctx, runID)
	log := s.Logger.With("run_id", runID)

	if span, spanCtx := s.Sentry.StartTransaction(ctx, "billing.run"); span != nil {
		ctx = spanCtx
		defer span.Finish()
	}

	started := time.Now()
	startedAt := s.Clock.Now()

	var limiter *rate.Limiter
	if cps := s.Config.Billing.ChargesPerSecond; cps > 0 {
		limiter = rate.NewLimiter(rate.Limit(cps), 1)
	}

	workers := max(s.Config.Billing.Workers, 1)
	log.Infow("billing run started", "accounts", len(accounts), "workers", workers)

	slots := make([]runSlot, len(accounts))
	p := pool.New().WithMaxGoroutines(workers)
	for i, a := range accounts {
		// Go blocks while every worker is busy, so once cancellation is
		// observed here the remaining accounts are never started
		if ctx.Err() != nil {
			slots[i] = runSlot{result: cancelledResult(a)}
			continue
		}
		i, a := i, a
		p.Go(func() {
			res, err := s.billAccount(ctx, a, limiter)
			slots[i] = runSlot{result: res, err: err}
		})
	}
	p.Wait()

	result := &billing.BatchResult{
		RunID:     runID,
		Accounts:  make([]*billing.AccountResult, 0, len(accounts)),
		StartedAt: startedAt,
	}
	for _, slot := range slots {
		result.Accounts = append(result.Accounts, slot.result)
		if slot.result.Transaction != nil {
			result.Transactions = append(result.Transactions, slot.result.Transaction)
		}
		if slot.err != nil {
			result.Errors = append(result.Errors, &billing.AccountError{
				AccountID: slot.result.AccountID,
				Err:       slot.err,
			})
		}
	}
	result.FinishedAt = s.Clock.Now()

	s.finishRun(ctx, log, result, time.Since(started))

	if err := ctx.Err(); err != nil {
		log.Warnw("billing run cancelled",
			"cancelled", result.Count(types.AccountRunStatusCancelled),
			"error", err,
		)
		return result, err
	}
	return result, nil
}

func (s *billingService) finishRun(ctx context.Context, log *logger.Logger, result *billing.BatchResult, elapsed time.Duration) {
	summary := result.Summary()

	if s.Metrics != nil {
		s.Metrics.ObserveRun(elapsed)
		s.Metrics.RecordAccountErrors(summary.Errors)
	}

	if s.EventPublisher != nil {
		if err := s.EventPublisher.Publish(context.WithoutCancel(ctx), types.EventBillingRunCompleted, "", summary); err != nil {
			log.Warnw("run completed event not published", "error", err)
		}
	}

	log.Infow("billing run finished",
		"accounts", summary.Accounts,
		"charged", summary.Charged,
		"declined", summary.Declined,
		"skipped", summary.Skipped,
		"errors", summary.Errors,
		"cancelled", summary.Cancelled,
		"duration", elapsed,
	)
}

// billAccount charges one account. Every gateway answer is recorded in the
// ledger; infrastructure failures come back as an error with no entry.
// The skip rules and the charge use the stored account read under its lock,
// not the snapshot the run was started with.
func (s *billingService) billAccount(ctx context.Context, a *account.Account, limiter *rate.Limiter) (*billing.AccountResult, error) {
	if ctx.Err() != nil {
		return cancelledResult(a), nil
	}

	if !a.IsBillable() {
		return skippedResult(a), nil
	}

	done, err := s.Locks.BeginCharge(a.ID)
	if err != nil {
		return s.accountFailed(ctx, a, err)
	}
	defer done()

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return cancelledResult(a), nil
			}
			return s.accountFailed(ctx, a, ierr.WithError(err).
				WithHint("Billing run ran out of time before this account could be charged").
				Mark(ierr.ErrSystem))
		}
	}

	unlock := s.Locks.Lock(a.ID)
	defer unlock()

	current, err := s.AccountRepo.Get(ctx, a.ID)
	if err != nil {
		if ctx.Err() != nil {
			return cancelledResult(a), nil
		}
		return s.accountFailed(ctx, a, err)
	}
	if !current.IsBillable() {
		return skippedResult(current), nil
	}

	method := current.DefaultPaymentMethod()
	amount := current.MRR
	res, err := s.Gateway.Charge(ctx, gateway.ChargeRequest{
		AccountID: current.ID,
		Amount:    amount,
		Method:    method,
		Profile:   types.ChargeProfileRecurring,
	})
	if err != nil {
		return s.accountFailed(ctx, current, err)
	}

	// the processor has answered, so the outcome is committed even if the
	// run is cancelled from here on
	commitCtx := context.WithoutCancel(ctx)

	txn := s.newTransaction(commitCtx, current,
		types.TransactionTypeCharge,
		amount,
		res.Status(),
		method.Label(),
		"Recurring "+current.BillingCycle.String()+" charge",
	)
	txn.GatewayRef = res.TransactionRef
	txn.FailureReason = res.DeclineReason

	if res.Success {
		current.NextBillingDate = current.BillingCycle.Next(current.NextBillingDate)
		current.UpdatedAt = s.Clock.Now()
	}

	err = s.DB.WithTx(commitCtx, func(ctx context.Context) error {
		if err := s.TransactionRepo.Append(ctx, txn); err != nil {
			return err
		}
		if !res.Success {
			return nil
		}
		return s.AccountRepo.Update(ctx, current)
	})
	if err != nil {
		s.Logger.Errorw("charge outcome not recorded",
			"account_id", current.ID,
			"gateway_ref", res.TransactionRef,
			"success", res.Success,
			"error", err,
		)
		return s.accountFailed(ctx, a, err)
	}

	s.afterRecorded(commitCtx, txn)

	status := types.AccountRunStatusCharged
	if !res.Success {
		status = types.AccountRunStatusDeclined
		s.Logger.Infow("recurring charge declined",
			"account_id", current.ID,
			"amount", amount.String(),
			"reason", res.DeclineReason,
		)
	}

	return &billing.AccountResult{
		AccountID:       current.ID,
		AccountName:     current.Name,
		Status:          status,
		Transaction:     txn,
		NextBillingDate: current.NextBillingDate,
		Reason:          res.DeclineReason,
	}, nil
}

func (s *billingService) accountFailed(ctx context.Context, a *account.Account, err error) (*billing.AccountResult, error) {
	s.Logger.Errorw("billing account failed", "account_id", a.ID, "error", err)
	if !ierr.IsInvalidOperation(err) {
		s.Sentry.CaptureAccountError(types.GetRunID(ctx), a.ID, err)
	}
	return &billing.AccountResult{
		AccountID:       a.ID,
		AccountName:     a.Name,
		Status:          types.AccountRunStatusError,
		NextBillingDate: a.NextBillingDate,
		Reason:          err.Error(),
	}, err
}

func skippedResult(a *account.Account) *billing.AccountResult {
	return &billing.AccountResult{
		AccountID:       a.ID,
		AccountName:     a.Name,
		Status:          types.AccountRunStatusSkipped,
		NextBillingDate: a.NextBillingDate,
		Reason:          lo.Ternary(a.Status != types.AccountStatusActive, skipReasonInactive, skipReasonNoMRR),
	}
}

func cancelledResult(a *account.Account) *billing.AccountResult {
	return &billing.AccountResult{
		AccountID:       a.ID,
		AccountName:     a.Name,
		Status:          types.AccountRunStatusCancelled,
		NextBillingDate: a.NextBillingDate,
		Reason:          cancelReason,
	}
}

func (s *billingService) RunBillingCycleForAll(ctx context.Context) (*billing.BatchResult, error) {
	accounts, err := s.AccountRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	return s.RunCycle(ctx, accounts)
}

func (s *billingService) RunBillingCycle(ctx context.Context, req dto.RunBillingRequest) (*dto.BillingRunResponse, error) {
	accounts, err := s.selectAccounts(ctx, req.AccountIDs)
	if err != nil {
		return nil, err
	}

	result, err := s.RunCycle(ctx, accounts)
	if result == nil {
		return nil, err
	}
	return dto.NewBillingRunResponse(result), err
}

// selectAccounts resolves the requested ids in order, or every account when none are given
func (s *billingService) selectAccounts(ctx context.Context, ids []string) ([]*account.Account, error) {
	if len(ids) == 0 {
		return s.AccountRepo.List(ctx, nil)
	}

	accounts := make([]*account.Account, 0, len(ids))
	for _, id := range lo.Uniq(ids) {
		a, err := s.AccountRepo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

func (s *billingService) GetRevenueSummary(ctx context.Context) (*dto.RevenueSummaryResponse, error) {
	accounts, err := s.AccountRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	txns, err := s.TransactionRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	summary := &dto.RevenueSummaryResponse{
		TotalMRR:          decimal.Zero,
		AccountsByStatus:  make(map[types.AccountStatus]int),
		CollectedRevenue:  decimal.Zero,
		RefundedAmount:    decimal.Zero,
		StoreCreditIssued: decimal.Zero,
	}

	for _, a := range accounts {
		summary.TotalMRR = summary.TotalMRR.Add(a.MRR)
		summary.AccountsByStatus[a.Status]++
	}

	for _, t := range txns {
		succeeded := t.Status == types.TransactionStatusSucceeded
		switch t.Type {
		case types.TransactionTypeCharge:
			if succeeded {
				summary.CollectedRevenue = summary.CollectedRevenue.Add(t.Amount)
			} else {
				summary.FailedCharges++
			}
		case types.TransactionTypeRefund:
			if succeeded {
				summary.RefundedAmount = summary.RefundedAmount.Add(t.Amount)
			}
		case types.TransactionTypeCreditAdjustment:
			summary.StoreCreditIssued = summary.StoreCreditIssued.Add(t.Amount)
		}
	}
	return summary, nil
}
