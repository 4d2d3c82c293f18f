// Package realtime fans committed writes out across service instances over
// Redis Pub/Sub, so subscription snapshots stay live no matter which instance
// performed the write.
package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gcgcontrol/panel-service/internal/events"
)

// envelope is the wire form of an event on the Redis channel. Origin lets an
// instance skip its own publications on the way back in.
type envelope struct {
	Origin string       `json:"origin"`
	Event  events.Event `json:"event"`
}

// Bridge wraps a local dispatcher: local publishes are mirrored to Redis, and
// remote publications are replayed into the local dispatcher. With no Redis
// client the bridge degrades to local-only dispatch.
type Bridge struct {
	local      events.Dispatcher
	client     *redis.Client
	channel    string
	logger     *zap.Logger
	instanceID string
}

// NewBridge builds the bridge. client may be nil.
func NewBridge(local events.Dispatcher, client *redis.Client, channel string, logger *zap.Logger) *Bridge {
	return &Bridge{
		local:      local,
		client:     client,
		channel:    channel,
		logger:     logger,
		instanceID: uuid.NewString(),
	}
}

// Publish dispatches locally, then mirrors to Redis. A Redis failure is
// logged and dropped: local subscribers already saw the change, and remote
// instances reconverge on their next write-driven reload.
func (b *Bridge) Publish(ctx context.Context, event events.Event) error {
	if err := b.local.Publish(ctx, event); err != nil {
		return err
	}
	if b.client == nil {
		return nil
	}

	payload, err := json.Marshal(envelope{Origin: b.instanceID, Event: event})
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		b.logger.Warn("redis publish failed", zap.Error(err), zap.String("event", string(event.Type)))
	}
	return nil
}

// Subscribe registers a handler on the local dispatcher.
func (b *Bridge) Subscribe(eventType events.EventType, handler events.EventHandler) {
	b.local.Subscribe(eventType, handler)
}

// Run consumes the Redis channel until ctx is cancelled, replaying remote
// events into the local dispatcher.
func (b *Bridge) Run(ctx context.Context) {
	if b.client == nil {
		return
	}

	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	b.logger.Info("realtime bridge listening", zap.String("channel", b.channel))

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				b.logger.Warn("malformed realtime payload", zap.Error(err))
				continue
			}
			if env.Origin == b.instanceID {
				continue
			}
			if err := b.local.Publish(ctx, env.Event); err != nil {
				b.logger.Warn("remote event dispatch failed", zap.Error(err))
			}
		}
	}
}
