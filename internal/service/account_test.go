package service

import (
	"testing"
	"time"

	"github.com/nexusai/billing/internal/api/dto"
	"github.com/nexusai/billing/internal/domain/plan"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/testutil"
	"github.com/nexusai/billing/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type AccountServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AccountService
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewAccountService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func (s *AccountServiceSuite) TestCreateAccount() {
	s.Run("signup with a card", func() {
		resp, err := s.service.CreateAccount(s.GetContext(), dto.CreateAccountRequest{
			Name:      "Acme Dental",
			OwnerName: "Dana Reyes",
			Email:     "dana@acme.test",
			PlanID:    plan.PlanIDProBundle,
			PaymentMethod: &dto.AddPaymentMethodRequest{
				Kind:       types.PaymentMethodKindCard,
				CardNumber: "4242 4242 4242 4242",
				Expiry:     "08/28",
			},
		})
		s.Require().NoError(err)

		a := s.GetAccount(resp.ID)
		s.Equal(types.AccountStatusActive, a.Status)
		s.Equal("500", a.MRR.String())
		s.Equal(types.BillingCycleWeekly, a.BillingCycle)
		s.True(a.NextBillingDate.Equal(s.GetNow().AddDate(0, 0, 7)))
		s.True(a.AutoPay)
		s.True(a.Credits.IsZero())

		s.Require().Len(a.PaymentMethods, 1)
		m := a.PaymentMethods[0]
		s.True(m.IsDefault)
		s.Equal("Visa", m.Brand)
		s.Equal("4242", m.Last4)
	})

	s.Run("monthly cycle without a method", func() {
		resp, err := s.service.CreateAccount(s.GetContext(), dto.CreateAccountRequest{
			Name:         "Harbor Legal",
			PlanID:       plan.PlanIDEmailOnly,
			BillingCycle: types.BillingCycleMonthly,
			AutoPay:      lo.ToPtr(false),
		})
		s.Require().NoError(err)
		s.Empty(resp.PaymentMethods)
		s.False(resp.AutoPay)
		s.True(resp.NextBillingDate.Equal(time.Date(2026, time.April, 4, 10, 0, 0, 0, time.UTC)))
	})

	s.Run("unknown plan", func() {
		_, err := s.service.CreateAccount(s.GetContext(), dto.CreateAccountRequest{
			Name:   "Nowhere",
			PlanID: "platinum",
		})
		s.Require().Error(err)
		s.True(ierr.IsNotFound(err))
	})

	s.Run("invalid card number", func() {
		_, err := s.service.CreateAccount(s.GetContext(), dto.CreateAccountRequest{
			Name:   "Bad Card",
			PlanID: plan.PlanIDEmailOnly,
			PaymentMethod: &dto.AddPaymentMethodRequest{
				Kind:       types.PaymentMethodKindCard,
				CardNumber: "1234567890123",
			},
		})
		s.Require().Error(err)
		s.True(ierr.IsValidation(err))
	})
}

func (s *AccountServiceSuite) TestListAccounts() {
	s.CreateAccount("Active One", plan.PlanIDEmailOnly)
	s.CreateAccount("Suspended One", plan.PlanIDProBundle, testutil.WithStatus(types.AccountStatusSuspended))

	all, err := s.service.ListAccounts(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Equal(2, all.Total)

	suspended, err := s.service.ListAccounts(s.GetContext(), &types.AccountFilter{
		Status: lo.ToPtr(types.AccountStatusSuspended),
	})
	s.Require().NoError(err)
	s.Require().Equal(1, suspended.Total)
	s.Equal("Suspended One", suspended.Items[0].Name)
}

func (s *AccountServiceSuite) TestSetStatus() {
	a := s.CreateAccount("Status Co", plan.PlanIDEmailOnly)

	resp, err := s.service.SetStatus(s.GetContext(), a.ID, dto.UpdateAccountStatusRequest{
		Status: types.AccountStatusSuspended,
	})
	s.Require().NoError(err)
	s.Equal(types.AccountStatusSuspended, resp.Status)
	s.Equal(types.AccountStatusSuspended, s.GetAccount(a.ID).Status)

	_, err = s.service.SetStatus(s.GetContext(), a.ID, dto.UpdateAccountStatusRequest{
		Status: types.AccountStatus("frozen"),
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.SetStatus(s.GetContext(), "acct_missing", dto.UpdateAccountStatusRequest{
		Status: types.AccountStatusActive,
	})
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *AccountServiceSuite) TestGetAccount() {
	_, err := s.service.GetAccount(s.GetContext(), "")
	s.True(ierr.IsValidation(err))

	a := s.CreateAccount("Lookup Co", plan.PlanIDReceptionistOnly)
	resp, err := s.service.GetAccount(s.GetContext(), a.ID)
	s.Require().NoError(err)
	s.Equal(a.Name, resp.Name)
}
