package gateway_test

import (
	"context"
	"strings"
	"testing"
	"time"

	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/gateway"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/testutil"
	"github.com/nexusai/billing/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC)

func newGateway(random gateway.RandomSource, clock gateway.Clock) *gateway.SimulatedGateway {
	settings := gateway.Settings{
		Latency:              1500 * time.Millisecond,
		OneOffFailureRate:    0.05,
		RecurringFailureRate: 0.10,
		RefundFailureRate:    0,
	}
	return gateway.NewSimulatedGateway(settings, random, clock, logger.NewNoopLogger())
}

func TestChargeUsesProfileFailureRate(t *testing.T) {
	card := testutil.NewCard("pm_1", "Visa", "4242", true)
	amount := decimal.NewFromInt(100)

	tests := []struct {
		name    string
		roll    float64
		profile types.ChargeProfile
		success bool
	}{
		{"one-off below rate declines", 0.04, types.ChargeProfileOneOff, false},
		{"one-off at rate succeeds", 0.05, types.ChargeProfileOneOff, true},
		{"recurring below rate declines", 0.09, types.ChargeProfileRecurring, false},
		{"recurring above rate succeeds", 0.10, types.ChargeProfileRecurring, true},
		{"roll between rates only fails recurring", 0.07, types.ChargeProfileRecurring, false},
		{"roll between rates passes one-off", 0.07, types.ChargeProfileOneOff, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := testutil.NewFakeClock(now)
			gw := newGateway(testutil.NewScriptedRandom(tt.roll), clock)

			result, err := gw.Charge(context.Background(), gateway.ChargeRequest{
				AccountID: "acct_1",
				Amount:    amount,
				Method:    card,
				Profile:   tt.profile,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.success, result.Success)
			assert.Equal(t, now, result.ProcessedAt)
			assert.Equal(t, 1500*time.Millisecond, clock.Slept())

			if tt.success {
				assert.True(t, strings.HasPrefix(result.TransactionRef, "TX_"))
				assert.LessOrEqual(t, len(result.TransactionRef), 16)
				assert.Equal(t, types.TransactionStatusSucceeded, result.Status())
			} else {
				assert.Equal(t, gateway.DeclineReasonCardDeclined, result.DeclineReason)
				assert.Empty(t, result.TransactionRef)
				assert.Equal(t, types.TransactionStatusFailed, result.Status())
			}
		})
	}
}

func TestChargeWithoutMethodAlwaysDeclines(t *testing.T) {
	gw := newGateway(testutil.NewScriptedRandom(0.99), testutil.NewFakeClock(now))

	result, err := gw.Charge(context.Background(), gateway.ChargeRequest{
		AccountID: "acct_1",
		Amount:    decimal.NewFromInt(100),
		Profile:   types.ChargeProfileRecurring,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, gateway.DeclineReasonNoPaymentMethod, result.DeclineReason)
}

func TestChargeRejectsNonPositiveAmount(t *testing.T) {
	gw := newGateway(testutil.NewScriptedRandom(0.99), testutil.NewFakeClock(now))

	_, err := gw.Charge(context.Background(), gateway.ChargeRequest{
		AccountID: "acct_1",
		Amount:    decimal.Zero,
		Method:    testutil.NewCard("pm_1", "Visa", "4242", true),
	})
	assert.True(t, ierr.IsValidation(err))
}

func TestCancelledLatencyIsTransportFailure(t *testing.T) {
	clock := testutil.NewFakeClock(now)
	release := clock.Hold()
	defer release()

	gw := newGateway(testutil.NewScriptedRandom(0.99), clock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := gw.Charge(ctx, gateway.ChargeRequest{
			AccountID: "acct_1",
			Amount:    decimal.NewFromInt(100),
			Method:    testutil.NewCard("pm_1", "Visa", "4242", true),
		})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		assert.True(t, ierr.IsGatewayUnavailable(err))
	case <-time.After(5 * time.Second):
		t.Fatal("charge did not observe cancellation")
	}
}

func TestRefund(t *testing.T) {
	card := testutil.NewCard("pm_1", "Visa", "4242", true)

	t.Run("succeeds with default zero failure rate", func(t *testing.T) {
		gw := newGateway(testutil.NewScriptedRandom(0), testutil.NewFakeClock(now))
		result, err := gw.Refund(context.Background(), gateway.RefundRequest{
			AccountID: "acct_1",
			Amount:    decimal.RequireFromString("228.57"),
			Method:    card,
		})
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.True(t, strings.HasPrefix(result.TransactionRef, "RE_"))
	})

	t.Run("honours configured failure rate", func(t *testing.T) {
		settings := gateway.Settings{RefundFailureRate: 0.5}
		gw := gateway.NewSimulatedGateway(settings, testutil.NewScriptedRandom(0.2), testutil.NewFakeClock(now), logger.NewNoopLogger())
		result, err := gw.Refund(context.Background(), gateway.RefundRequest{
			AccountID: "acct_1",
			Amount:    decimal.NewFromInt(10),
			Method:    card,
		})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, gateway.DeclineReasonRefundFailed, result.DeclineReason)
	})

	t.Run("without method declines", func(t *testing.T) {
		gw := newGateway(testutil.NewScriptedRandom(0), testutil.NewFakeClock(now))
		result, err := gw.Refund(context.Background(), gateway.RefundRequest{
			AccountID: "acct_1",
			Amount:    decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		assert.False(t, result.Success)
	})
}

func TestSeededRandomSourceIsReproducible(t *testing.T) {
	a := gateway.NewRandomSource(42)
	b := gateway.NewRandomSource(42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}
