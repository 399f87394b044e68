package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherInvokesSubscribersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls []string
	d.Subscribe(EventSignupCompleted, func(ctx context.Context, e Event) error {
		calls = append(calls, "first")
		return nil
	})
	d.Subscribe(EventSignupCompleted, func(ctx context.Context, e Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventVisitorRecorded, func(ctx context.Context, e Event) error {
		calls = append(calls, "unrelated")
		return nil
	})

	err := d.Publish(context.Background(), Event{
		Type:      EventSignupCompleted,
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestDispatcherSwallowsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()

	reached := false
	d.Subscribe(EventVisitorRecorded, func(ctx context.Context, e Event) error {
		return errors.New("audit sink down")
	})
	d.Subscribe(EventVisitorRecorded, func(ctx context.Context, e Event) error {
		reached = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventVisitorRecorded})
	require.NoError(t, err)
	assert.True(t, reached, "later handlers run despite earlier failure")
}
