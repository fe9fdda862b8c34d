package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var received []Event
	d.Subscribe(EventRentalCreated, func(_ context.Context, event Event) error {
		received = append(received, event)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventRentalCreated, RentalID: 3})
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, int64(3), received[0].RentalID)

	// unrelated event types are not delivered
	err = d.Publish(context.Background(), Event{Type: EventRentalDeleted, RentalID: 4})
	require.NoError(t, err)
	assert.Len(t, received, 1)
}

func TestDispatcherContinuesPastFailingHandler(t *testing.T) {
	d := NewInMemoryDispatcher()

	var secondCalled bool
	d.Subscribe(EventRentalUpdated, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventRentalUpdated, func(context.Context, Event) error {
		secondCalled = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventRentalUpdated})
	require.NoError(t, err)
	assert.True(t, secondCalled)
}
