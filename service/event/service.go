package event

import (
	"context"

	"github.com/gyrelab/gyre/service/messaging"
	"github.com/gyrelab/gyre/service/messaging/memory"
)

// Service bundles a queue, its publisher and an optional listener into a
// single scheduler event bus.
type Service struct {
	queue     messaging.Queue[Event]
	publisher *Publisher
	listener  *Listener
}

// Option customizes the event service.
type Option func(s *Service)

// WithQueue replaces the default in-memory queue.
func WithQueue(queue messaging.Queue[Event]) Option {
	return func(s *Service) { s.queue = queue }
}

// New creates an event service. Without options it is backed by an in-memory
// queue with the default buffer.
func New(opts ...Option) *Service {
	ret := &Service{}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.queue == nil {
		ret.queue = memory.NewQueue[Event](memory.DefaultConfig())
	}
	ret.publisher = NewPublisher(ret.queue)
	return ret
}

// Publish emits an event. Errors are swallowed: event delivery is best
// effort and must never disturb scheduling.
func (s *Service) Publish(e *Event) {
	_ = s.publisher.Publish(context.Background(), e)
}

// SetListener installs the handler, replacing any previous one, and starts
// consuming.
func (s *Service) SetListener(handler func(*Event)) {
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener(s.queue, handler)
	s.listener.Start()
}

// Shutdown stops the listener, if any.
func (s *Service) Shutdown() {
	if s.listener != nil {
		s.listener.Stop()
		s.listener = nil
	}
}
