package dto

import (
	"github.com/nexusai/billing/internal/domain/account"
	"github.com/nexusai/billing/internal/types"
	"github.com/nexusai/billing/internal/validator"
)

// CreateAccountRequest signs up a new billable account
type CreateAccountRequest struct {
	Name          string                   `json:"name" validate:"required,max=255"`
	OwnerName     string                   `json:"owner_name" validate:"max=255"`
	Email         string                   `json:"email" validate:"omitempty,email"`
	PlanID        string                   `json:"plan_id" validate:"required"`
	BillingCycle  types.BillingCycle       `json:"billing_cycle,omitempty"`
	Status        types.AccountStatus      `json:"status,omitempty"`
	AutoPay       *bool                    `json:"auto_pay,omitempty"`
	PaymentMethod *AddPaymentMethodRequest `json:"payment_method,omitempty"`
}

func (r *CreateAccountRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.BillingCycle != "" {
		if err := r.BillingCycle.Validate(); err != nil {
			return err
		}
	}
	if r.Status != "" {
		if err := r.Status.Validate(); err != nil {
			return err
		}
	}
	if r.PaymentMethod != nil {
		return r.PaymentMethod.Validate()
	}
	return nil
}

type UpdateAccountStatusRequest struct {
	Status types.AccountStatus `json:"status" validate:"required"`
}

func (r *UpdateAccountStatusRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Status.Validate()
}

type AccountResponse struct {
	*account.Account
}

type ListAccountsResponse = ListResponse[*AccountResponse]
