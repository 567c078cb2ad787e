package plan

import (
	"context"
)

// Repository defines the interface for plan catalog persistence
type Repository interface {
	Get(ctx context.Context, id string) (*Plan, error)
	List(ctx context.Context) ([]*Plan, error)
	Upsert(ctx context.Context, plan *Plan) error
	// ReplaceAll swaps the whole catalog for plans in one write
	ReplaceAll(ctx context.Context, plans []*Plan) error
}
