package service

import (
	"testing"

	"github.com/nexusai/billing/internal/api/dto"
	"github.com/nexusai/billing/internal/domain/plan"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PlanServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PlanService
}

func TestPlanService(t *testing.T) {
	suite.Run(t, new(PlanServiceSuite))
}

func (s *PlanServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPlanService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func (s *PlanServiceSuite) TestListPlans() {
	resp, err := s.service.ListPlans(s.GetContext())
	s.Require().NoError(err)
	s.Equal(4, resp.Total)

	prices := map[string]string{}
	for _, p := range resp.Items {
		prices[p.ID] = p.Price.String()
	}
	s.Equal(map[string]string{
		plan.PlanIDEmailOnly:        "100",
		plan.PlanIDReceptionistOnly: "400",
		plan.PlanIDProBundle:        "500",
		plan.PlanIDBusinessElite:    "700",
	}, prices)
}

func (s *PlanServiceSuite) TestGetPlan() {
	tests := []struct {
		name    string
		id      string
		wantErr func(error) bool
	}{
		{name: "seeded plan", id: plan.PlanIDBusinessElite},
		{name: "unknown plan", id: "platinum", wantErr: ierr.IsNotFound},
		{name: "empty id", id: "", wantErr: ierr.IsValidation},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp, err := s.service.GetPlan(s.GetContext(), tt.id)
			if tt.wantErr != nil {
				s.Require().Error(err)
				s.True(tt.wantErr(err), "unexpected error: %v", err)
				return
			}
			s.Require().NoError(err)
			s.Equal(tt.id, resp.ID)
			s.True(resp.Highlight)
		})
	}
}

func (s *PlanServiceSuite) TestUpsertPlan() {
	s.Run("updates an existing tier", func() {
		resp, err := s.service.UpsertPlan(s.GetContext(), plan.PlanIDEmailOnly, dto.UpsertPlanRequest{
			Name:  "Email Only",
			Price: decimal.RequireFromString("120.005"),
		})
		s.Require().NoError(err)
		s.Equal("120.01", resp.Price.StringFixed(2))

		reloaded := s.GetPlan(plan.PlanIDEmailOnly)
		s.True(reloaded.Price.Equal(decimal.RequireFromString("120.01")))
		s.Equal(plan.PeriodWeek, reloaded.Period)
	})

	s.Run("adds a new tier", func() {
		_, err := s.service.UpsertPlan(s.GetContext(), "starter", dto.UpsertPlanRequest{
			Name:  "Starter",
			Price: decimal.NewFromInt(50),
		})
		s.Require().NoError(err)

		list, err := s.service.ListPlans(s.GetContext())
		s.Require().NoError(err)
		s.Equal(5, list.Total)
	})

	s.Run("rejects a negative price", func() {
		_, err := s.service.UpsertPlan(s.GetContext(), "broken", dto.UpsertPlanRequest{
			Name:  "Broken",
			Price: decimal.NewFromInt(-1),
		})
		s.Require().Error(err)
		s.True(ierr.IsValidation(err))
	})
}

func (s *PlanServiceSuite) TestSeedDefaultPlans() {
	s.Run("keeps an existing catalog", func() {
		_, err := s.service.UpsertPlan(s.GetContext(), plan.PlanIDProBundle, dto.UpsertPlanRequest{
			Name:  "Pro Bundle",
			Price: decimal.NewFromInt(550),
		})
		s.Require().NoError(err)

		s.Require().NoError(s.service.SeedDefaultPlans(s.GetContext()))
		s.True(s.GetPlan(plan.PlanIDProBundle).Price.Equal(decimal.NewFromInt(550)))
	})

	s.Run("seeds an empty store", func() {
		s.GetBackend().Clear()
		s.Require().NoError(s.service.SeedDefaultPlans(s.GetContext()))

		list, err := s.service.ListPlans(s.GetContext())
		s.Require().NoError(err)
		s.Equal(4, list.Total)
	})
}
