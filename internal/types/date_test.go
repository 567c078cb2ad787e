package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddClampedDate(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		years  int
		months int
		days   int
		want   time.Time
	}{
		{
			name:   "month end clamps into february",
			start:  time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2024, time.February, 29, 10, 0, 0, 0, time.UTC),
		},
		{
			name:   "non leap year february",
			start:  time.Date(2023, time.January, 31, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "crosses year forward",
			start:  time.Date(2024, time.November, 15, 0, 0, 0, 0, time.UTC),
			months: 2,
			want:   time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "crosses year backward",
			start:  time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			months: -1,
			want:   time.Date(2023, time.December, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "leap day plus one year",
			start: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			years: 1,
			want:  time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "days roll over month end",
			start: time.Date(2024, time.March, 29, 0, 0, 0, 0, time.UTC),
			days:  7,
			want:  time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddClampedDate(tt.start, tt.years, tt.months, tt.days)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestBillingCycleNextAndPrevious(t *testing.T) {
	start := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, time.February, 7, 0, 0, 0, 0, time.UTC), BillingCycleWeekly.Next(start))
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), BillingCycleMonthly.Next(start))
	assert.Equal(t, time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC), BillingCycleYearly.Next(start))

	next := BillingCycleWeekly.Next(start)
	assert.Equal(t, start, BillingCycleWeekly.Previous(next))
	assert.Equal(t, 7, DaysBetween(BillingCycleWeekly.Previous(next), next))
}

func TestEnumValidation(t *testing.T) {
	assert.NoError(t, AccountStatusSuspended.Validate())
	assert.Error(t, AccountStatus("Cancelled").Validate())
	assert.NoError(t, PaymentMethodKindPaypal.Validate())
	assert.Error(t, PaymentMethodKind("crypto").Validate())
	assert.NoError(t, TransactionTypeCreditAdjustment.Validate())
	assert.Error(t, TransactionStatus("void").Validate())
	assert.NoError(t, SettlementChoiceRefundToMethod.Validate())
	assert.Error(t, SettlementChoice("cash").Validate())
	assert.Error(t, BillingCycle("daily").Validate())
	assert.NoError(t, DefaultPromotionFirst.Validate())
}

func TestTransactionFilterValidate(t *testing.T) {
	start := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	assert.NoError(t, (*TransactionFilter)(nil).Validate())
	assert.Error(t, (&TransactionFilter{StartTime: &start, EndTime: &end}).Validate())
	assert.Error(t, (&TransactionFilter{Limit: 5000}).Validate())
}

func TestGenerateIDs(t *testing.T) {
	id := GenerateUUIDWithPrefix(UUID_PREFIX_ACCOUNT)
	assert.Regexp(t, `^acct_[0-9A-Z]{26}$`, id)

	ref := GenerateShortIDWithPrefix(SHORT_ID_PREFIX_GATEWAY_CHARGE)
	assert.NotEmpty(t, ref)
	assert.True(t, len(ref) <= 16)
	assert.Equal(t, "TX_", ref[:3])
}
