// Package memory provides a channel-backed messaging.Queue used as the
// default transport for scheduler lifecycle events.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gyrelab/gyre/internal/clock"
	"github.com/gyrelab/gyre/internal/idgen"
	"github.com/gyrelab/gyre/service/messaging"
)

// Config controls queue buffering and redelivery behaviour.
type Config struct {
	// Buffer is the capacity of the underlying channel. Publish blocks once
	// the buffer is full.
	Buffer int

	// MaxRedeliveries bounds how many times a nacked message is requeued
	// before it moves to the dead-letter list.
	MaxRedeliveries int

	// RedeliveryDelay is the pause before a nacked message is requeued.
	RedeliveryDelay time.Duration

	// DeadLetter keeps messages that exhausted their redeliveries instead of
	// dropping them.
	DeadLetter bool
}

// DefaultConfig returns a configuration suitable for in-process event
// delivery.
func DefaultConfig() Config {
	return Config{
		Buffer:          64,
		MaxRedeliveries: 3,
		RedeliveryDelay: 100 * time.Millisecond,
		DeadLetter:      true,
	}
}

// Message implements messaging.Message for the in-memory queue.
type Message[T any] struct {
	id         string
	payload    T
	queue      *Queue[T]
	deliveries int
	createdAt  time.Time

	mu        sync.Mutex
	processed bool
}

// T returns the message payload.
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack acknowledges the message as processed successfully.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.processed {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.processed = true
	return nil
}

// Nack reports a processing failure. The message is requeued after the
// configured delay until MaxRedeliveries is reached, then parked on the
// dead-letter list when dead lettering is enabled.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.processed {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.processed = true
	m.deliveries++

	if m.deliveries <= m.queue.config.MaxRedeliveries {
		go m.queue.requeue(m)
		return nil
	}
	if m.queue.config.DeadLetter {
		m.queue.dlqMu.Lock()
		m.queue.dlq = append(m.queue.dlq, m)
		m.queue.dlqMu.Unlock()
	}
	return nil
}

// Queue implements an in-memory messaging.Queue.
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config

	dlqMu sync.Mutex
	dlq   []*Message[T]
}

// NewQueue creates a new in-memory queue.
func NewQueue[T any](config Config) *Queue[T] {
	if config.Buffer <= 0 {
		config.Buffer = DefaultConfig().Buffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.Buffer),
		config:   config,
	}
}

// Publish adds a new item to the queue.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &Message[T]{
		id:        idgen.New(),
		payload:   *t,
		queue:     q,
		createdAt: clock.Now(),
	}
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume retrieves a single item from the queue.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the current number of buffered messages.
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DLQSize returns the number of dead-lettered messages.
func (q *Queue[T]) DLQSize() int {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	return len(q.dlq)
}

func (q *Queue[T]) requeue(m *Message[T]) {
	time.Sleep(q.config.RedeliveryDelay)
	q.messages <- &Message[T]{
		id:         m.id,
		payload:    m.payload,
		queue:      q,
		deliveries: m.deliveries,
		createdAt:  clock.Now(),
	}
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
