package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testPayload struct {
	Slot  int
	Event string
}

func TestQueuePublishConsume(t *testing.T) {
	config := DefaultConfig()
	config.RedeliveryDelay = 10 * time.Millisecond
	queue := NewQueue[testPayload](config)

	ctx := context.Background()
	payload := testPayload{Slot: 1, Event: "task.spawned"}

	err := queue.Publish(ctx, &payload)
	assert.NoError(t, err)
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, payload, *message.T())

	assert.NoError(t, message.Ack())
	assert.Error(t, message.Ack(), "double ack should error")
}

func TestQueueRedelivery(t *testing.T) {
	config := DefaultConfig()
	config.MaxRedeliveries = 1
	config.RedeliveryDelay = 5 * time.Millisecond
	queue := NewQueue[testPayload](config)

	ctx := context.Background()
	payload := testPayload{Slot: 2, Event: "task.completed"}
	assert.NoError(t, queue.Publish(ctx, &payload))

	// First delivery, nacked: the message comes back once.
	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NoError(t, message.Nack(nil))

	redelivered, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, payload, *redelivered.T())

	// Second nack exhausts redeliveries and dead-letters the message.
	assert.NoError(t, redelivered.Nack(nil))
	assert.Eventually(t, func() bool { return queue.DLQSize() == 1 },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, queue.Size())
}

func TestQueueContextCancellation(t *testing.T) {
	queue := NewQueue[testPayload](DefaultConfig())

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	payload := testPayload{Slot: 3}
	assert.Error(t, queue.Publish(cancelled, &payload))

	ctx, cancelTimeout := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelTimeout()
	_, err := queue.Consume(ctx)
	assert.Error(t, err)

	// The queue stays usable after a cancelled operation.
	assert.NoError(t, queue.Publish(context.Background(), &payload))
	message, err := queue.Consume(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, message)
}
