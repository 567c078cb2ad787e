package types

// AccountRunStatus is what a billing run did with one account
type AccountRunStatus string

const (
	AccountRunStatusCharged   AccountRunStatus = "charged"
	AccountRunStatusDeclined  AccountRunStatus = "declined"
	AccountRunStatusSkipped   AccountRunStatus = "skipped"
	AccountRunStatusError     AccountRunStatus = "error"
	AccountRunStatusCancelled AccountRunStatus = "cancelled"
)

func (s AccountRunStatus) String() string {
	return string(s)
}

// PlanChangeKind is the outcome of a plan switch request
type PlanChangeKind string

const (
	// PlanChangeKindUpgraded means the prorated charge succeeded and the plan changed
	PlanChangeKindUpgraded PlanChangeKind = "upgraded"
	// PlanChangeKindSwapped means the proration was zero and the plan changed
	PlanChangeKindSwapped PlanChangeKind = "swapped"
	// PlanChangeKindDowngradePrompt means a settlement choice is needed before anything changes
	PlanChangeKindDowngradePrompt PlanChangeKind = "downgrade_prompt"
	// PlanChangeKindDeclined means the prorated charge was declined and the plan is unchanged
	PlanChangeKindDeclined PlanChangeKind = "declined"
	// PlanChangeKindDowngraded means the settlement went through and the plan changed
	PlanChangeKindDowngraded PlanChangeKind = "downgraded"
	// PlanChangeKindRefundDeclined means the refund failed and the plan is unchanged
	PlanChangeKindRefundDeclined PlanChangeKind = "refund_declined"
)

func (k PlanChangeKind) String() string {
	return string(k)
}
