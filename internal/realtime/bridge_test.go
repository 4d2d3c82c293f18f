package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gcgcontrol/panel-service/internal/events"
)

func TestPublishDeliversLocallyWithoutRedis(t *testing.T) {
	local := events.NewInMemoryDispatcher()
	bridge := NewBridge(local, nil, "panel:events", zap.NewNop())

	var got []events.Event
	bridge.Subscribe(events.EventAnalystChanged, func(_ context.Context, event events.Event) error {
		got = append(got, event)
		return nil
	})

	err := bridge.Publish(context.Background(), events.Event{ID: "e1", Type: events.EventAnalystChanged, SubjectID: "a1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].SubjectID)
}

func TestRunWithoutRedisReturns(t *testing.T) {
	bridge := NewBridge(events.NewInMemoryDispatcher(), nil, "panel:events", zap.NewNop())

	// Degraded mode: nothing to consume, returns immediately.
	bridge.Run(context.Background())
}

func TestEnvelopeRoundTrip(t *testing.T) {
	local := events.NewInMemoryDispatcher()
	bridge := NewBridge(local, nil, "panel:events", zap.NewNop())

	payload, err := json.Marshal(envelope{Origin: bridge.instanceID, Event: events.Event{ID: "e1", Type: events.EventMessageAppended}})
	require.NoError(t, err)

	var decoded envelope
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, bridge.instanceID, decoded.Origin)
	assert.Equal(t, events.EventMessageAppended, decoded.Event.Type)
}
