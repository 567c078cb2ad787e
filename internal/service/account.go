package service

import (
	"context"

	"github.com/nexusai/billing/internal/api/dto"
	"github.com/nexusai/billing/internal/domain/account"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type AccountService interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*dto.AccountResponse, error)
	GetAccount(ctx context.Context, id string) (*dto.AccountResponse, error)
	ListAccounts(ctx context.Context, filter *types.AccountFilter) (*dto.ListAccountsResponse, error)
	SetStatus(ctx context.Context, id string, req dto.UpdateAccountStatusRequest) (*dto.AccountResponse, error)
}

type accountService struct {
	ServiceParams
}

func NewAccountService(params ServiceParams) AccountService {
	return &accountService{ServiceParams: params}
}

// CreateAccount signs up an account on the selected plan. MRR starts at the
// plan price and the first cycle ends one cycle from now.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.PlanRepo.Get(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	cycle := lo.Ternary(req.BillingCycle != "", req.BillingCycle, s.Config.Billing.DefaultCycle)
	status := lo.Ternary(req.Status != "", req.Status, types.AccountStatusActive)

	a := &account.Account{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ACCOUNT),
		Name:            req.Name,
		OwnerName:       req.OwnerName,
		Email:           req.Email,
		PlanID:          p.ID,
		Status:          status,
		MRR:             p.Price,
		BillingCycle:    cycle,
		NextBillingDate: cycle.Next(now),
		PaymentMethods:  []*account.PaymentMethod{},
		AutoPay:         lo.FromPtrOr(req.AutoPay, true),
		Credits:         decimal.Zero,
		JoinedAt:        now,
		UpdatedAt:       now,
	}

	if req.PaymentMethod != nil {
		m, err := req.PaymentMethod.ToPaymentMethod(now)
		if err != nil {
			return nil, err
		}
		if err := a.AddPaymentMethod(m); err != nil {
			return nil, err
		}
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := a.CheckInvariants(); err != nil {
		return nil, err
	}

	if err := s.AccountRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.Logger.Infow("account created",
		"account_id", a.ID,
		"plan_id", a.PlanID,
		"billing_cycle", a.BillingCycle,
		"payment_methods", len(a.PaymentMethods),
	)
	return &dto.AccountResponse{Account: a}, nil
}

func (s *accountService) GetAccount(ctx context.Context, id string) (*dto.AccountResponse, error) {
	if id == "" {
		return nil, ierr.NewError("account_id is required").
			WithHint("Account ID is required").
			Mark(ierr.ErrValidation)
	}

	a, err := s.AccountRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.AccountResponse{Account: a}, nil
}

func (s *accountService) ListAccounts(ctx context.Context, filter *types.AccountFilter) (*dto.ListAccountsResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	accounts, err := s.AccountRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewListResponse(lo.Map(accounts, func(a *account.Account, _ int) *dto.AccountResponse {
		return &dto.AccountResponse{Account: a}
	})), nil
}

// SetStatus suspends or reactivates an account. Only Active accounts are
// picked up by the billing runner.
func (s *accountService) SetStatus(ctx context.Context, id string, req dto.UpdateAccountStatusRequest) (*dto.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	unlock := s.Locks.Lock(id)
	defer unlock()

	a, err := s.AccountRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.Status == req.Status {
		return &dto.AccountResponse{Account: a}, nil
	}

	previous := a.Status
	a.Status = req.Status
	a.UpdatedAt = s.Clock.Now()

	if err := s.AccountRepo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.Logger.Infow("account status changed",
		"account_id", a.ID,
		"from", previous,
		"to", a.Status,
	)
	return &dto.AccountResponse{Account: a}, nil
}
