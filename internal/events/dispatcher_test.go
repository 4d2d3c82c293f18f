package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesSubscribersInOrder(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var seen []string
	dispatcher.Subscribe(EventMessageAppended, func(_ context.Context, event Event) error {
		seen = append(seen, event.SubjectID)
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventMessageAppended, SubjectID: "m1"}))
	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventMessageAppended, SubjectID: "m2"}))
	assert.Equal(t, []string{"m1", "m2"}, seen)
}

func TestPublishIgnoresUnsubscribedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var called bool
	dispatcher.Subscribe(EventAnalystChanged, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventMessageAppended}))
	assert.False(t, called)
}

func TestHandlerErrorDoesNotStopOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var second bool
	dispatcher.Subscribe(EventAnalystChanged, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventAnalystChanged, func(context.Context, Event) error {
		second = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventAnalystChanged}))
	assert.True(t, second)
}
