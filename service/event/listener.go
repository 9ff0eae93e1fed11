package event

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const idleDelay = 20 * time.Millisecond

// Listener consumes events from a publisher queue and passes them to handler
// on a dedicated goroutine.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	logger    *logrus.Entry
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewListener creates a listener
func NewListener[T any](publisher *Publisher[T], handler func(*Event[T]), logger *logrus.Entry) *Listener[T] {
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		logger:    logger,
	}
}

// Start starts the consuming goroutine
func (l *Listener[T]) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.done = make(chan struct{})
	go func() {
		defer close(l.done)
		for {
			event, err := l.publisher.Consume(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				l.logger.WithError(err).Warn("failed to consume event")
			}
			if event == nil {
				// fs queues return immediately when empty
				select {
				case <-ctx.Done():
					return
				case <-time.After(idleDelay):
				}
				continue
			}
			l.handler(event)
		}
	}()
}

// Stop stops the goroutine and waits for the in-flight handler to return.
// It must not be called from within the handler.
func (l *Listener[T]) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	<-l.done
}
