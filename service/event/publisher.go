package event

import (
	"context"

	"github.com/gyrelab/gyre/service/messaging"
)

// Publisher pushes events onto a queue.
type Publisher struct {
	queue messaging.Queue[Event]
}

// NewPublisher returns a publisher bound to the provided queue.
func NewPublisher(queue messaging.Queue[Event]) *Publisher {
	return &Publisher{queue: queue}
}

// Publish enqueues the event.
func (p *Publisher) Publish(ctx context.Context, e *Event) error {
	return p.queue.Publish(ctx, e)
}
