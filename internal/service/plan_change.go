package service

import (
	"context"
	"fmt"

	"github.com/nexusai/billing/internal/api/dto"
	"github.com/nexusai/billing/internal/domain/account"
	"github.com/nexusai/billing/internal/domain/ledger"
	"github.com/nexusai/billing/internal/domain/plan"
	"github.com/nexusai/billing/internal/domain/proration"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/gateway"
	"github.com/nexusai/billing/internal/types"
	"github.com/shopspring/decimal"
)

// PlanChangeService moves accounts between plans mid-cycle. Upgrades are
// charged immediately; downgrades return a prompt that is settled by
// ResolveDowngrade as store credit or a refund.
type PlanChangeService interface {
	SwitchPlan(ctx context.Context, accountID string, req dto.SwitchPlanRequest) (*dto.PlanChangeResponse, error)
	ResolveDowngrade(ctx context.Context, accountID string, req dto.ResolveDowngradeRequest) (*dto.PlanChangeResponse, error)
}

type planChangeService struct {
	ServiceParams
}

func NewPlanChangeService(params ServiceParams) PlanChangeService {
	return &planChangeService{ServiceParams: params}
}

// planSwitch is the resolved input of a plan change
type planSwitch struct {
	account   *account.Account
	current   *plan.Plan
	target    *plan.Plan
	result    *proration.Result
	elapsed   int
	cycleDays int
}

func (sw *planSwitch) prorationResponse() *dto.ProrationResponse {
	return dto.NewProrationResponse(sw.result, sw.elapsed, sw.cycleDays)
}

func (s *planChangeService) SwitchPlan(ctx context.Context, accountID string, req dto.SwitchPlanRequest) (*dto.PlanChangeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := s.AccountRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if a.PlanID == req.TargetPlanID {
		return nil, ierr.NewError("account already on target plan").
			WithHint("The account is already on this plan").
			WithReportableDetails(map[string]any{
				"account_id": a.ID,
				"plan_id":    a.PlanID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	sw, err := s.prepare(ctx, a, a.PlanID, req.TargetPlanID)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("switching plan",
		"account_id", a.ID,
		"from", sw.current.ID,
		"to", sw.target.ID,
		"amount", sw.result.Amount.String(),
		"days_elapsed", sw.elapsed,
		"cycle_days", sw.cycleDays,
	)

	switch {
	case sw.result.IsZero():
		return s.swap(ctx, sw)
	case !sw.result.IsUpgrade:
		return &dto.PlanChangeResponse{
			Kind:      types.PlanChangeKindDowngradePrompt,
			Account:   &dto.AccountResponse{Account: a},
			Proration: sw.prorationResponse(),
			Prompt: &proration.DowngradePrompt{
				AccountID:     a.ID,
				CurrentPlanID: sw.current.ID,
				TargetPlanID:  sw.target.ID,
				Amount:        sw.result.Settlement(),
				IssuedAt:      s.Clock.Now(),
			},
		}, nil
	default:
		return s.upgrade(ctx, sw, req.PaymentMethodID)
	}
}

func (s *planChangeService) ResolveDowngrade(ctx context.Context, accountID string, req dto.ResolveDowngradeRequest) (*dto.PlanChangeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prompt := req.Prompt
	if prompt.AccountID != "" && prompt.AccountID != accountID {
		return nil, ierr.NewError("prompt belongs to another account").
			WithHint("Downgrade prompt does not belong to this account").
			Mark(ierr.ErrValidation)
	}

	a, err := s.AccountRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := checkPromptPlan(a, prompt); err != nil {
		return nil, err
	}

	sw, err := s.prepare(ctx, a, prompt.CurrentPlanID, prompt.TargetPlanID)
	if err != nil {
		return nil, err
	}

	// the proration is recomputed so a prompt cannot be replayed after the
	// amount has moved
	if sw.result.IsUpgrade || sw.result.IsZero() || !sw.result.Settlement().Equal(prompt.Amount) {
		return nil, ierr.NewError("downgrade prompt is stale").
			WithHint("The downgrade amount has changed, please request the switch again").
			WithReportableDetails(map[string]any{
				"account_id":     a.ID,
				"prompt_amount":  prompt.Amount.String(),
				"current_amount": sw.result.Settlement().String(),
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	return s.settle(ctx, sw, req.Choice)
}

func (s *planChangeService) settle(ctx context.Context, sw *planSwitch, choice types.SettlementChoice) (*dto.PlanChangeResponse, error) {
	switch choice {
	case types.SettlementChoiceStoreCredit:
		return s.settleWithCredit(ctx, sw)
	case types.SettlementChoiceRefundToMethod:
		return s.settleWithRefund(ctx, sw)
	default:
		return nil, ierr.NewError("unknown settlement choice").
			WithHint("Settlement must be store_credit or refund").
			WithReportableDetails(map[string]any{"choice": choice.String()}).
			Mark(ierr.ErrInvalidOperation)
	}
}

func (s *planChangeService) prepare(ctx context.Context, a *account.Account, currentPlanID, targetPlanID string) (*planSwitch, error) {
	current, err := s.PlanRepo.Get(ctx, currentPlanID)
	if err != nil {
		return nil, err
	}
	target, err := s.PlanRepo.Get(ctx, targetPlanID)
	if err != nil {
		return nil, err
	}

	elapsed, cycleDays := proration.ElapsedDays(a.NextBillingDate, a.BillingCycle, s.Clock.Now())
	result, err := s.Calculator.Calculate(proration.Params{
		CurrentPlan:     current,
		TargetPlan:      target,
		CycleLengthDays: cycleDays,
		DaysElapsed:     elapsed,
	})
	if err != nil {
		return nil, err
	}

	return &planSwitch{
		account:   a,
		current:   current,
		target:    target,
		result:    result,
		elapsed:   elapsed,
		cycleDays: cycleDays,
	}, nil
}

func (s *planChangeService) swap(ctx context.Context, sw *planSwitch) (*dto.PlanChangeResponse, error) {
	done, err := s.Locks.BeginCharge(sw.account.ID)
	if err != nil {
		return nil, err
	}
	defer done()

	unlock := s.Locks.Lock(sw.account.ID)
	defer unlock()

	a, err := s.reload(ctx, sw.account.ID, sw.current.ID)
	if err != nil {
		return nil, err
	}

	s.applyPlan(a, sw.target)
	if err := s.AccountRepo.Update(ctx, a); err != nil {
		return nil, err
	}

	return &dto.PlanChangeResponse{
		Kind:      types.PlanChangeKindSwapped,
		Account:   &dto.AccountResponse{Account: a},
		Proration: sw.prorationResponse(),
	}, nil
}

func (s *planChangeService) upgrade(ctx context.Context, sw *planSwitch, methodID string) (*dto.PlanChangeResponse, error) {
	method := sw.account.DefaultPaymentMethod()
	if methodID != "" {
		m, err := sw.account.PaymentMethod(methodID)
		if err != nil {
			return nil, err
		}
		method = m
	}

	done, err := s.Locks.BeginCharge(sw.account.ID)
	if err != nil {
		return nil, err
	}
	defer done()

	if _, err := s.reloadLocked(ctx, sw.account.ID, sw.current.ID); err != nil {
		return nil, err
	}

	amount := sw.result.Settlement()
	res, err := s.Gateway.Charge(ctx, gateway.ChargeRequest{
		AccountID: sw.account.ID,
		Amount:    amount,
		Method:    method,
		Profile:   types.ChargeProfileOneOff,
	})
	if err != nil {
		s.Logger.Errorw("upgrade charge failed", "account_id", sw.account.ID, "error", err)
		return nil, err
	}

	description := fmt.Sprintf("Prorated upgrade from %s to %s", sw.current.Name, sw.target.Name)
	a, txn, err := s.commitSettlement(ctx, sw, res, types.TransactionTypeCharge, amount, method.Label(), description)
	if err != nil {
		return nil, err
	}

	kind := types.PlanChangeKindUpgraded
	if !res.Success {
		kind = types.PlanChangeKindDeclined
		s.Logger.Infow("upgrade declined",
			"account_id", a.ID,
			"target_plan_id", sw.target.ID,
			"reason", res.DeclineReason,
		)
	}

	return &dto.PlanChangeResponse{
		Kind:        kind,
		Account:     &dto.AccountResponse{Account: a},
		Proration:   sw.prorationResponse(),
		Transaction: txn,
	}, nil
}

func (s *planChangeService) settleWithCredit(ctx context.Context, sw *planSwitch) (*dto.PlanChangeResponse, error) {
	done, err := s.Locks.BeginCharge(sw.account.ID)
	if err != nil {
		return nil, err
	}
	defer done()

	unlock := s.Locks.Lock(sw.account.ID)
	defer unlock()

	a, err := s.reload(ctx, sw.account.ID, sw.current.ID)
	if err != nil {
		return nil, err
	}

	amount := sw.result.Settlement()
	a.Credits = a.Credits.Add(amount)
	s.applyPlan(a, sw.target)

	txn := s.newTransaction(ctx, a,
		types.TransactionTypeCreditAdjustment,
		amount,
		types.TransactionStatusSucceeded,
		types.PaymentMethodLabelSystemCredit,
		fmt.Sprintf("Store credit for downgrade from %s to %s", sw.current.Name, sw.target.Name),
	)

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.TransactionRepo.Append(ctx, txn); err != nil {
			return err
		}
		return s.AccountRepo.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	s.afterRecorded(ctx, txn)
	s.Logger.Infow("downgrade settled with store credit",
		"account_id", a.ID,
		"amount", amount.String(),
		"credits", a.Credits.String(),
	)

	return &dto.PlanChangeResponse{
		Kind:        types.PlanChangeKindDowngraded,
		Account:     &dto.AccountResponse{Account: a},
		Proration:   sw.prorationResponse(),
		Transaction: txn,
	}, nil
}

func (s *planChangeService) settleWithRefund(ctx context.Context, sw *planSwitch) (*dto.PlanChangeResponse, error) {
	method := sw.account.DefaultPaymentMethod()

	done, err := s.Locks.BeginCharge(sw.account.ID)
	if err != nil {
		return nil, err
	}
	defer done()

	if _, err := s.reloadLocked(ctx, sw.account.ID, sw.current.ID); err != nil {
		return nil, err
	}

	amount := sw.result.Settlement()
	res, err := s.Gateway.Refund(ctx, gateway.RefundRequest{
		AccountID: sw.account.ID,
		Amount:    amount,
		Method:    method,
	})
	if err != nil {
		s.Logger.Errorw("downgrade refund failed", "account_id", sw.account.ID, "error", err)
		return nil, err
	}

	description := fmt.Sprintf("Refund for downgrade from %s to %s", sw.current.Name, sw.target.Name)
	a, txn, err := s.commitSettlement(ctx, sw, res, types.TransactionTypeRefund, amount, method.Label(), description)
	if err != nil {
		return nil, err
	}

	kind := types.PlanChangeKindDowngraded
	if !res.Success {
		kind = types.PlanChangeKindRefundDeclined
	}

	return &dto.PlanChangeResponse{
		Kind:        kind,
		Account:     &dto.AccountResponse{Account: a},
		Proration:   sw.prorationResponse(),
		Transaction: txn,
	}, nil
}

// commitSettlement records the gateway outcome and, when it succeeded, moves
// the account to the target plan in the same commit. The gateway has already
// been called, so the commit ignores cancellation of ctx.
func (s *planChangeService) commitSettlement(
	ctx context.Context,
	sw *planSwitch,
	res *gateway.Result,
	txnType types.TransactionType,
	amount decimal.Decimal,
	label string,
	description string,
) (*account.Account, *ledger.Transaction, error) {
	commitCtx := context.WithoutCancel(ctx)

	unlock := s.Locks.Lock(sw.account.ID)
	defer unlock()

	a, err := s.reload(commitCtx, sw.account.ID, sw.current.ID)
	if err != nil {
		s.Logger.Errorw("plan moved while gateway call was in flight",
			"account_id", sw.account.ID,
			"gateway_ref", res.TransactionRef,
			"success", res.Success,
			"error", err,
		)
		return nil, nil, err
	}

	txn := s.newTransaction(commitCtx, a, txnType, amount, res.Status(), label, description)
	txn.GatewayRef = res.TransactionRef
	txn.FailureReason = res.DeclineReason

	if res.Success {
		s.applyPlan(a, sw.target)
	}

	err = s.DB.WithTx(commitCtx, func(ctx context.Context) error {
		if err := s.TransactionRepo.Append(ctx, txn); err != nil {
			return err
		}
		if !res.Success {
			return nil
		}
		return s.AccountRepo.Update(ctx, a)
	})
	if err != nil {
		s.Logger.Errorw("gateway outcome not recorded",
			"account_id", a.ID,
			"gateway_ref", res.TransactionRef,
			"amount", amount.String(),
			"error", err,
		)
		s.Sentry.CaptureException(err)
		return nil, nil, err
	}

	s.afterRecorded(commitCtx, txn)
	return a, txn, nil
}

// reload reads the account again under its lock and rejects the change if
// the plan moved since the switch was priced
func (s *planChangeService) reload(ctx context.Context, accountID, expectedPlanID string) (*account.Account, error) {
	a, err := s.AccountRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if a.PlanID != expectedPlanID {
		return nil, ierr.NewError("account plan changed").
			WithHint("The account's plan changed, please request the switch again").
			WithReportableDetails(map[string]any{
				"account_id":       a.ID,
				"plan_id":          a.PlanID,
				"expected_plan_id": expectedPlanID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	return a, nil
}

// reloadLocked is reload under the account lock, for callers that do not
// hold it across their gateway call
func (s *planChangeService) reloadLocked(ctx context.Context, accountID, expectedPlanID string) (*account.Account, error) {
	unlock := s.Locks.Lock(accountID)
	defer unlock()
	return s.reload(ctx, accountID, expectedPlanID)
}

func (s *planChangeService) applyPlan(a *account.Account, target *plan.Plan) {
	a.PlanID = target.ID
	a.MRR = target.Price
	a.UpdatedAt = s.Clock.Now()
}

func checkPromptPlan(a *account.Account, prompt proration.DowngradePrompt) error {
	if a.PlanID != prompt.CurrentPlanID {
		return ierr.NewError("downgrade prompt is stale").
			WithHint("The account's plan changed since this downgrade was requested").
			WithReportableDetails(map[string]any{
				"account_id":     a.ID,
				"plan_id":        a.PlanID,
				"prompt_plan_id": prompt.CurrentPlanID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}
