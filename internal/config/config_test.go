package config

import (
	"os"
	"testing"

	"github.com/nexusai/billing/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, GetDefaultConfig().Validate())
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Store.Backend = types.StoreBackend("etcd")
	assert.Error(t, cfg.Validate())

	cfg = GetDefaultConfig()
	cfg.Billing.Workers = 0
	assert.Error(t, cfg.Validate())
}

func TestNewConfigReadsEnvironment(t *testing.T) {
	// run from an empty directory so only defaults and env apply
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("NEXUS_BILLING_DEFAULT_PROMOTION", "first")
	t.Setenv("NEXUS_BILLING_WORKERS", "8")
	t.Setenv("NEXUS_STORE_BACKEND", "redis")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultPromotionFirst, cfg.Billing.DefaultPromotion)
	assert.Equal(t, 8, cfg.Billing.Workers)
	assert.Equal(t, types.StoreBackendRedis, cfg.Store.Backend)
	assert.Equal(t, types.BillingCycleWeekly, cfg.Billing.DefaultCycle)
	assert.InDelta(t, 0.05, cfg.Gateway.OneOffFailureRate, 1e-9)
}
