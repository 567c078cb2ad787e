package dto

import (
	"github.com/nexusai/billing/internal/domain/plan"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/validator"
	"github.com/shopspring/decimal"
)

type UpsertPlanRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Price       decimal.Decimal `json:"price"`
	Period      string          `json:"period" validate:"omitempty,max=20"`
	Description string          `json:"description" validate:"max=500"`
	Features    []plan.Feature  `json:"features" validate:"dive"`
	Highlight   bool            `json:"highlight"`
}

func (r *UpsertPlanRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Price.IsNegative() {
		return ierr.NewError("plan price must be non-negative").
			WithHint("Plan price cannot be negative").
			WithReportableDetails(map[string]any{"price": r.Price.String()}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *UpsertPlanRequest) ToPlan(id string) *plan.Plan {
	period := r.Period
	if period == "" {
		period = plan.PeriodWeek
	}
	return &plan.Plan{
		ID:          id,
		Name:        r.Name,
		Price:       r.Price.Round(2),
		Period:      period,
		Description: r.Description,
		Features:    r.Features,
		Highlight:   r.Highlight,
	}
}

type PlanResponse struct {
	*plan.Plan
}

type ListPlansResponse = ListResponse[*PlanResponse]
