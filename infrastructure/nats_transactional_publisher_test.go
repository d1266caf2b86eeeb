package infrastructure

import (
	"context"
	"errors"
	"testing"

	"lotteryd/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures published events for assertions
type recordingPublisher struct {
	published []events.Event
	err       error
}

func (r *recordingPublisher) Publish(event events.Event) error {
	if r.err != nil {
		return r.err
	}
	r.published = append(r.published, event)
	return nil
}

func TestTransactionalPublisher_BuffersUntilFlush(t *testing.T) {
	t.Parallel()

	real := &recordingPublisher{}
	publisher := NewNATSTransactionalPublisher(real)

	require.NoError(t, publisher.Publish(events.RoundStartedEvent{RoundID: 1}))
	require.NoError(t, publisher.Publish(events.TicketPurchasedEvent{RoundID: 1, Account: "alice"}))

	assert.Empty(t, real.published, "events must not reach NATS before flush")

	publisher.Flush(context.Background())

	require.Len(t, real.published, 2)
	assert.Equal(t, events.EventTypeRoundStarted, real.published[0].Type())
	assert.Equal(t, events.EventTypeTicketPurchased, real.published[1].Type())
}

func TestTransactionalPublisher_DiscardDropsPending(t *testing.T) {
	t.Parallel()

	real := &recordingPublisher{}
	publisher := NewNATSTransactionalPublisher(real)

	require.NoError(t, publisher.Publish(events.WinningsClaimedEvent{Account: "alice", Amount: 100}))
	publisher.Discard()
	publisher.Flush(context.Background())

	assert.Empty(t, real.published)
}

func TestTransactionalPublisher_FlushClearsBuffer(t *testing.T) {
	t.Parallel()

	real := &recordingPublisher{}
	publisher := NewNATSTransactionalPublisher(real)

	require.NoError(t, publisher.Publish(events.RoundStartedEvent{RoundID: 1}))
	publisher.Flush(context.Background())
	publisher.Flush(context.Background())

	assert.Len(t, real.published, 1, "a second flush must not republish")
}

func TestTransactionalPublisher_FlushSurvivesPublishErrors(t *testing.T) {
	t.Parallel()

	real := &recordingPublisher{err: errors.New("stream unavailable")}
	publisher := NewNATSTransactionalPublisher(real)

	require.NoError(t, publisher.Publish(events.RoundStartedEvent{RoundID: 1}))

	// Flush logs the failure and clears the buffer
	publisher.Flush(context.Background())

	real.err = nil
	publisher.Flush(context.Background())
	assert.Empty(t, real.published)
}
