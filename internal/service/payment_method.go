package service

import (
	"context"

	"github.com/nexusai/billing/internal/api/dto"
	"github.com/nexusai/billing/internal/domain/account"
)

// PaymentMethodService manages the per-account vault. Every mutation is a
// read-modify-write of the account document under the account's lock.
type PaymentMethodService interface {
	AddPaymentMethod(ctx context.Context, accountID string, req dto.AddPaymentMethodRequest) (*dto.AccountResponse, error)
	RemovePaymentMethod(ctx context.Context, accountID, methodID string) (*dto.AccountResponse, error)
	SetAutoPay(ctx context.Context, accountID string, req dto.SetAutoPayRequest) (*dto.AccountResponse, error)
}

type paymentMethodService struct {
	ServiceParams
}

func NewPaymentMethodService(params ServiceParams) PaymentMethodService {
	return &paymentMethodService{ServiceParams: params}
}

func (s *paymentMethodService) AddPaymentMethod(ctx context.Context, accountID string, req dto.AddPaymentMethodRequest) (*dto.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := req.ToPaymentMethod(s.Clock.Now())
	if err != nil {
		return nil, err
	}

	a, err := s.mutate(ctx, accountID, func(a *account.Account) error {
		return a.AddPaymentMethod(m)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("payment method added",
		"account_id", accountID,
		"payment_method_id", m.ID,
		"kind", m.Kind,
		"is_default", m.IsDefault,
	)
	return &dto.AccountResponse{Account: a}, nil
}

func (s *paymentMethodService) RemovePaymentMethod(ctx context.Context, accountID, methodID string) (*dto.AccountResponse, error) {
	var removed *account.PaymentMethod
	a, err := s.mutate(ctx, accountID, func(a *account.Account) error {
		var err error
		removed, err = a.RemovePaymentMethod(methodID, s.Config.Billing.DefaultPromotion)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("payment method removed",
		"account_id", accountID,
		"payment_method_id", methodID,
		"was_default", removed.IsDefault,
		"promotion", s.Config.Billing.DefaultPromotion,
	)
	return &dto.AccountResponse{Account: a}, nil
}

func (s *paymentMethodService) SetAutoPay(ctx context.Context, accountID string, req dto.SetAutoPayRequest) (*dto.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := s.mutate(ctx, accountID, func(a *account.Account) error {
		a.AutoPay = *req.Enabled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.AccountResponse{Account: a}, nil
}

// mutate loads the account under its lock, applies fn and persists the result
func (s *paymentMethodService) mutate(ctx context.Context, accountID string, fn func(a *account.Account) error) (*account.Account, error) {
	unlock := s.Locks.Lock(accountID)
	defer unlock()

	a, err := s.AccountRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := fn(a); err != nil {
		return nil, err
	}

	a.UpdatedAt = s.Clock.Now()
	if err := s.AccountRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
