package plan

import (
	"testing"

	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	assert.Len(t, catalog, 4)

	highlighted := 0
	for _, p := range catalog {
		assert.NoError(t, p.Validate())
		assert.Equal(t, PeriodWeek, p.Period)
		if p.Highlight {
			highlighted++
			assert.Equal(t, PlanIDBusinessElite, p.ID)
		}
	}
	assert.Equal(t, 1, highlighted)
	assert.True(t, catalog[0].Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, catalog[2].Price.Equal(decimal.NewFromInt(500)))
}

func TestPlanValidate(t *testing.T) {
	p := &Plan{ID: "starter", Name: "Starter", Price: decimal.NewFromInt(-1)}
	err := p.Validate()
	assert.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	p.Price = decimal.Zero
	assert.NoError(t, p.Validate())

	p.Features = []Feature{{Text: " "}}
	assert.Error(t, p.Validate())
}
