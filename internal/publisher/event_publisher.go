package publisher

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	jsoniter "github.com/json-iterator/go"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/pubsub"
	"github.com/nexusai/billing/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EventPublisher publishes billing events. Callers treat a publish error as
// non-fatal: the ledger is the source of truth, events are notifications.
type EventPublisher interface {
	Publish(ctx context.Context, name types.EventName, accountID string, payload any) error
}

type eventPublisher struct {
	pubSub pubsub.Publisher
	logger *logger.Logger
}

func NewEventPublisher(pubSub pubsub.PubSub, logger *logger.Logger) EventPublisher {
	return &eventPublisher{
		pubSub: pubSub,
		logger: logger,
	}
}

func (p *eventPublisher) Publish(ctx context.Context, name types.EventName, accountID string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode event payload").
			WithReportableDetails(map[string]any{"event_name": name}).
			Mark(ierr.ErrSystem)
	}

	event := &types.BillingEvent{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_EVENT),
		EventName: name,
		Timestamp: time.Now().UTC(),
		AccountID: accountID,
		RunID:     types.GetRunID(ctx),
		Payload:   raw,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode event").
			Mark(ierr.ErrSystem)
	}

	msg := message.NewMessage(event.ID, body)
	msg.Metadata.Set("event_name", name.String())
	if requestID := types.GetRequestID(ctx); requestID != "" {
		msg.Metadata.Set("request_id", requestID)
	}

	if err := p.pubSub.Publish(ctx, name.String(), msg); err != nil {
		p.logger.Errorw("failed to publish event",
			"error", err,
			"event_id", event.ID,
			"event_name", name,
			"account_id", accountID,
		)
		return ierr.WithError(err).
			WithHint("Failed to publish billing event").
			WithReportableDetails(map[string]any{"event_name": name}).
			Mark(ierr.ErrSystem)
	}

	p.logger.Debugw("published event",
		"event_id", event.ID,
		"event_name", name,
		"account_id", accountID,
	)
	return nil
}
