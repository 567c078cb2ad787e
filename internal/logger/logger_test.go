package logger

import (
	"testing"

	"github.com/nexusai/billing/internal/config"
	"github.com/nexusai/billing/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerHonoursLevel(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelWarn

	log, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.False(t, log.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Desugar().Core().Enabled(zapcore.WarnLevel))
}

func TestGlobalLoggerInitialized(t *testing.T) {
	assert.NotNil(t, L)
	assert.NotNil(t, L.With("account_id", "acct_1"))
}
