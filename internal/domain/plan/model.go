package plan

import (
	"strings"

	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/shopspring/decimal"
)

// Feature is one line of a tier's feature list
type Feature struct {
	Text     string `json:"text" validate:"required"`
	Included bool   `json:"included"`
}

// Plan is a subscription tier in the catalog. Transactions snapshot amounts,
// so editing a price never changes history.
type Plan struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Period      string          `json:"period"`
	Description string          `json:"description"`
	Features    []Feature       `json:"features"`
	Highlight   bool            `json:"highlight"`
}

func (p *Plan) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ierr.NewError("plan id is required").
			WithHint("Plan ID is required").
			Mark(ierr.ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return ierr.NewError("plan name is required").
			WithHint("Plan name is required").
			WithReportableDetails(map[string]any{"plan_id": p.ID}).
			Mark(ierr.ErrValidation)
	}
	if p.Price.IsNegative() {
		return ierr.NewError("plan price must be non-negative").
			WithHint("Plan price cannot be negative").
			WithReportableDetails(map[string]any{
				"plan_id": p.ID,
				"price":   p.Price.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	for i, f := range p.Features {
		if strings.TrimSpace(f.Text) == "" {
			return ierr.NewError("feature text is required").
				WithHintf("Feature %d of plan %s has no text", i, p.ID).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

const (
	PlanIDEmailOnly        = "email_only"
	PlanIDReceptionistOnly = "receptionist_only"
	PlanIDProBundle        = "pro_bundle"
	PlanIDBusinessElite    = "business_elite"

	PeriodWeek = "week"
)

// DefaultCatalog returns the tiers a fresh deployment is seeded with
func DefaultCatalog() []*Plan {
	return []*Plan{
		{
			ID:          PlanIDEmailOnly,
			Name:        "Email Only",
			Price:       decimal.NewFromInt(100),
			Period:      PeriodWeek,
			Description: "AI email drafting and inbox triage for small teams.",
			Features: []Feature{
				{Text: "AI Email Assistant", Included: true},
				{Text: "Smart Inbox Triage", Included: true},
				{Text: "AI Receptionist", Included: false},
				{Text: "Call Routing", Included: false},
			},
		},
		{
			ID:          PlanIDReceptionistOnly,
			Name:        "Receptionist Only",
			Price:       decimal.NewFromInt(400),
			Period:      PeriodWeek,
			Description: "A virtual receptionist that answers and routes every call.",
			Features: []Feature{
				{Text: "AI Email Assistant", Included: false},
				{Text: "AI Receptionist", Included: true},
				{Text: "Call Routing", Included: true},
				{Text: "Appointment Booking", Included: true},
			},
		},
		{
			ID:          PlanIDProBundle,
			Name:        "Pro Bundle",
			Price:       decimal.NewFromInt(500),
			Period:      PeriodWeek,
			Description: "Email and receptionist together for growing businesses.",
			Features: []Feature{
				{Text: "AI Email Assistant", Included: true},
				{Text: "AI Receptionist", Included: true},
				{Text: "Call Routing", Included: true},
				{Text: "Priority Support", Included: false},
			},
		},
		{
			ID:          PlanIDBusinessElite,
			Name:        "Business Elite",
			Price:       decimal.NewFromInt(700),
			Period:      PeriodWeek,
			Description: "Everything in Pro plus dedicated support and analytics.",
			Features: []Feature{
				{Text: "AI Email Assistant", Included: true},
				{Text: "AI Receptionist", Included: true},
				{Text: "Call Routing", Included: true},
				{Text: "Priority Support", Included: true},
				{Text: "Advanced Analytics", Included: true},
			},
			Highlight: true,
		},
	}
}
