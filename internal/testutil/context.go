package testutil

import (
	"context"

	"github.com/nexusai/billing/internal/types"
)

const TestActorID = "usr_test"

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetRequestID(ctx, types.GenerateUUID())
	ctx = types.SetActorID(ctx, TestActorID)
	return ctx
}
