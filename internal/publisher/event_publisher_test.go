package publisher_test

import (
	"context"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/nexusai/billing/internal/config"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/publisher"
	"github.com/nexusai/billing/internal/pubsub/memory"
	"github.com/nexusai/billing/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversEnvelope(t *testing.T) {
	cfg := config.GetDefaultConfig()
	log := logger.NewNoopLogger()
	ps := memory.NewPubSub(cfg, log)
	defer ps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx = types.SetRunID(ctx, "run_1")
	ctx = types.SetRequestID(ctx, "req_1")

	messages, err := ps.Subscribe(ctx, types.EventBillingRunCompleted.String())
	require.NoError(t, err)

	pub := publisher.NewEventPublisher(ps, log)
	payload := &types.BillingRunCompletedPayload{RunID: "run_1", Accounts: 3, Charged: 2, Declined: 1}
	require.NoError(t, pub.Publish(ctx, types.EventBillingRunCompleted, "", payload))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, "billing.run.completed", msg.Metadata.Get("event_name"))
		assert.Equal(t, "req_1", msg.Metadata.Get("request_id"))

		var event types.BillingEvent
		require.NoError(t, jsoniter.Unmarshal(msg.Payload, &event))
		assert.Equal(t, types.EventBillingRunCompleted, event.EventName)
		assert.Equal(t, "run_1", event.RunID)
		assert.Contains(t, event.ID, "evt_")

		var got types.BillingRunCompletedPayload
		require.NoError(t, jsoniter.Unmarshal(event.Payload, &got))
		assert.Equal(t, 3, got.Accounts)
		assert.Equal(t, 2, got.Charged)
	case <-ctx.Done():
		t.Fatal("event was not delivered")
	}
}

func TestPublishAfterCloseFails(t *testing.T) {
	cfg := config.GetDefaultConfig()
	log := logger.NewNoopLogger()
	ps := memory.NewPubSub(cfg, log)
	require.NoError(t, ps.Close())

	pub := publisher.NewEventPublisher(ps, log)
	err := pub.Publish(context.Background(), types.EventTransactionRecorded, "acct_1", map[string]string{"id": "txn_1"})
	assert.Error(t, err)
}
