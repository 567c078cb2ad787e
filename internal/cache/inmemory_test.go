package cache

import (
	"context"
	"testing"

	"github.com/nexusai/billing/internal/config"
	"github.com/nexusai/billing/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(config.GetDefaultConfig(), logger.NewNoopLogger())

	key := GenerateKey(PrefixPlan, "pro_bundle")
	assert.Equal(t, "plan:v1::pro_bundle", key)

	c.Set(ctx, key, 42, 0)
	got, ok := c.Get(ctx, key)
	assert.True(t, ok)
	assert.Equal(t, 42, got)

	c.Set(ctx, GenerateKey(PrefixPlan, "all"), "list", 0)
	c.DeleteByPrefix(ctx, PrefixPlan)
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
}

func TestInMemoryCache_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := config.GetDefaultConfig()
	cfg.Cache.Enabled = false
	c := NewInMemoryCache(cfg, logger.NewNoopLogger())

	c.Set(ctx, "k", "v", 0)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}
