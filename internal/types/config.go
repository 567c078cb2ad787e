package types

import (
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/samber/lo"
)

type RunMode string

const (
	// ModeLocal runs both the API server and the billing scheduler
	ModeLocal RunMode = "local"
	// ModeAPI runs just the API server
	ModeAPI RunMode = "api"
	// ModeScheduler runs just the billing scheduler
	ModeScheduler RunMode = "scheduler"
)

func (m RunMode) Validate() error {
	allowed := []RunMode{ModeLocal, ModeAPI, ModeScheduler}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid run mode").
			WithHint("Run mode must be one of local, api or scheduler").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"mode":    m,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// StoreBackend selects the document store implementation
type StoreBackend string

const (
	StoreBackendMemory   StoreBackend = "memory"
	StoreBackendRedis    StoreBackend = "redis"
	StoreBackendPostgres StoreBackend = "postgres"
)

func (b StoreBackend) Validate() error {
	allowed := []StoreBackend{StoreBackendMemory, StoreBackendRedis, StoreBackendPostgres}
	if !lo.Contains(allowed, b) {
		return ierr.NewError("invalid store backend").
			WithHint("Store backend must be one of memory, redis or postgres").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"backend": b,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DefaultPromotionPolicy controls what happens to the default flag when the
// default payment method is removed
type DefaultPromotionPolicy string

const (
	// DefaultPromotionNone leaves the account without a default method
	DefaultPromotionNone DefaultPromotionPolicy = "none"
	// DefaultPromotionFirst promotes the earliest remaining method
	DefaultPromotionFirst DefaultPromotionPolicy = "first"
)

func (p DefaultPromotionPolicy) Validate() error {
	allowed := []DefaultPromotionPolicy{DefaultPromotionNone, DefaultPromotionFirst}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid default promotion policy").
			WithHint("Default promotion must be none or first").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"policy":  p,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
