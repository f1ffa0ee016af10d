package event

import (
	"context"
	"errors"

	"github.com/gyrelab/gyre/service/messaging"
)

// Listener consumes events from a queue and hands them to a handler on a
// dedicated goroutine.
type Listener struct {
	queue    messaging.Queue[Event]
	handler  func(*Event)
	ctx      context.Context
	cancelFn context.CancelFunc
	done     chan struct{}
}

// NewListener creates a listener; call Start to begin consuming.
func NewListener(queue messaging.Queue[Event], handler func(*Event)) *Listener {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener{
		queue:    queue,
		handler:  handler,
		ctx:      ctx,
		cancelFn: cancel,
		done:     make(chan struct{}),
	}
}

// Start launches the consume loop.
func (l *Listener) Start() {
	go func() {
		defer close(l.done)
		for {
			message, err := l.queue.Consume(l.ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				continue
			}
			l.handler(message.T())
			_ = message.Ack()
		}
	}()
}

// Stop cancels the consume loop and waits for it to exit. Events still
// buffered in the queue are not delivered.
func (l *Listener) Stop() {
	l.cancelFn()
	<-l.done
}
