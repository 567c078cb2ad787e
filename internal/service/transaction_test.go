package service

import (
	"testing"
	"time"

	"github.com/nexusai/billing/internal/domain/account"
	"github.com/nexusai/billing/internal/domain/ledger"
	"github.com/nexusai/billing/internal/domain/plan"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/testutil"
	"github.com/nexusai/billing/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceSuite struct {
	testutil.BaseServiceTestSuite
	service TransactionService
	billing BillingService
}

func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceSuite))
}

func (s *TransactionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	s.service = NewTransactionService(params)
	s.billing = NewBillingService(params)
}

func (s *TransactionServiceSuite) runTwice(accounts ...*account.Account) {
	for i := 0; i < 2; i++ {
		_, err := s.billing.RunCycle(s.GetContext(), accounts)
		s.Require().NoError(err)
		s.GetClock().Advance(time.Hour)
	}
}

func (s *TransactionServiceSuite) TestListTransactionsNewestFirst() {
	a := s.CreateAccount("Ledger Co", plan.PlanIDEmailOnly)
	b := s.CreateAccount("Other Co", plan.PlanIDProBundle)
	s.runTwice(a, b)

	all, err := s.service.ListTransactions(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Equal(4, all.Total)
	for i := 1; i < len(all.Items); i++ {
		s.False(all.Items[i].Date.After(all.Items[i-1].Date))
	}

	mine, err := s.service.ListTransactions(s.GetContext(), &types.TransactionFilter{AccountID: a.ID})
	s.Require().NoError(err)
	s.Equal(2, mine.Total)
	s.True(lo.EveryBy(mine.Items, func(t *ledger.Transaction) bool { return t.AccountID == a.ID }))
}

func (s *TransactionServiceSuite) TestListTransactionsIsIdempotent() {
	a := s.CreateAccount("Repeat Co", plan.PlanIDEmailOnly)
	s.runTwice(a)

	first, err := s.service.ListTransactions(s.GetContext(), &types.TransactionFilter{AccountID: a.ID})
	s.Require().NoError(err)
	second, err := s.service.ListTransactions(s.GetContext(), &types.TransactionFilter{AccountID: a.ID})
	s.Require().NoError(err)
	s.Equal(first, second)
}

func (s *TransactionServiceSuite) TestListTransactionsFilters() {
	a := s.CreateAccount("Filter Co", plan.PlanIDEmailOnly)
	s.runTwice(a)
	s.GetGateway().DeclineAccount(a.ID)
	s.runTwice(a)

	failed, err := s.service.ListTransactions(s.GetContext(), &types.TransactionFilter{
		AccountID: a.ID,
		Status:    lo.ToPtr(types.TransactionStatusFailed),
	})
	s.Require().NoError(err)
	s.Equal(2, failed.Total)

	limited, err := s.service.ListTransactions(s.GetContext(), &types.TransactionFilter{AccountID: a.ID, Limit: 3})
	s.Require().NoError(err)
	s.Len(limited.Items, 3)

	_, err = s.service.ListTransactions(s.GetContext(), &types.TransactionFilter{AccountID: "acct_missing"})
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.ListTransactions(s.GetContext(), &types.TransactionFilter{
		Type: lo.ToPtr(types.TransactionType("chargeback")),
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TransactionServiceSuite) TestGetTransaction() {
	a := s.CreateAccount("Get Co", plan.PlanIDEmailOnly)
	s.runTwice(a)
	txns := s.LedgerFor(a.ID)

	resp, err := s.service.GetTransaction(s.GetContext(), txns[0].ID)
	s.Require().NoError(err)
	s.Equal(txns[0].ID, resp.ID)
	s.Equal("Get Co", resp.AccountName)

	_, err = s.service.GetTransaction(s.GetContext(), "txn_missing")
	s.True(ierr.IsNotFound(err))

	_, err = s.service.GetTransaction(s.GetContext(), "")
	s.True(ierr.IsValidation(err))
}
