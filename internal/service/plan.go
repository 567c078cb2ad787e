package service

import (
	"context"

	"github.com/nexusai/billing/internal/api/dto"
	"github.com/nexusai/billing/internal/domain/plan"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/samber/lo"
)

type PlanService interface {
	ListPlans(ctx context.Context) (*dto.ListPlansResponse, error)
	GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error)
	UpsertPlan(ctx context.Context, id string, req dto.UpsertPlanRequest) (*dto.PlanResponse, error)
	// SeedDefaultPlans installs the default catalog when no plan exists yet
	SeedDefaultPlans(ctx context.Context) error
}

type planService struct {
	ServiceParams
}

func NewPlanService(params ServiceParams) PlanService {
	return &planService{ServiceParams: params}
}

func (s *planService) ListPlans(ctx context.Context) (*dto.ListPlansResponse, error) {
	plans, err := s.PlanRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewListResponse(lo.Map(plans, func(p *plan.Plan, _ int) *dto.PlanResponse {
		return &dto.PlanResponse{Plan: p}
	})), nil
}

func (s *planService) GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error) {
	if id == "" {
		return nil, ierr.NewError("plan_id is required").
			WithHint("Plan ID is required").
			Mark(ierr.ErrValidation)
	}

	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.PlanResponse{Plan: p}, nil
}

func (s *planService) UpsertPlan(ctx context.Context, id string, req dto.UpsertPlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToPlan(id)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.PlanRepo.Upsert(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("plan saved", "plan_id", p.ID, "price", p.Price.String())
	return &dto.PlanResponse{Plan: p}, nil
}

func (s *planService) SeedDefaultPlans(ctx context.Context) error {
	existing, err := s.PlanRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.Logger.Debugw("plan catalog already present", "plans", len(existing))
		return nil
	}

	catalog := plan.DefaultCatalog()
	if err := s.PlanRepo.ReplaceAll(ctx, catalog); err != nil {
		return err
	}

	s.Logger.Infow("seeded default plan catalog", "plans", len(catalog))
	return nil
}
