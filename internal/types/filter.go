package types

import (
	"time"

	ierr "github.com/nexusai/billing/internal/errors"
)

const (
	FILTER_DEFAULT_LIMIT = 50
	FILTER_MAX_LIMIT     = 1000
)

// TransactionFilter narrows a ledger listing. The zero value lists everything.
type TransactionFilter struct {
	AccountID string             `json:"account_id,omitempty" form:"account_id"`
	Type      *TransactionType   `json:"type,omitempty" form:"type"`
	Status    *TransactionStatus `json:"status,omitempty" form:"status"`
	StartTime *time.Time         `json:"start_time,omitempty" form:"start_time" time_format:"2006-01-02T15:04:05Z07:00"`
	EndTime   *time.Time         `json:"end_time,omitempty" form:"end_time" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit     int                `json:"limit,omitempty" form:"limit" validate:"omitempty,min=0,max=1000"`
}

func (f *TransactionFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Type != nil {
		if err := f.Type.Validate(); err != nil {
			return err
		}
	}
	if f.Status != nil {
		if err := f.Status.Validate(); err != nil {
			return err
		}
	}
	if f.StartTime != nil && f.EndTime != nil && f.EndTime.Before(*f.StartTime) {
		return ierr.NewError("end time must be after start time").
			WithHint("End time must be after start time").
			Mark(ierr.ErrValidation)
	}
	if f.Limit < 0 || f.Limit > FILTER_MAX_LIMIT {
		return ierr.NewError("invalid limit").
			WithHintf("Limit must be between 0 and %d", FILTER_MAX_LIMIT).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// AccountFilter narrows an account listing
type AccountFilter struct {
	Status *AccountStatus `json:"status,omitempty" form:"status"`
	PlanID string         `json:"plan_id,omitempty" form:"plan_id"`
}

func (f *AccountFilter) Validate() error {
	if f == nil || f.Status == nil {
		return nil
	}
	return f.Status.Validate()
}
