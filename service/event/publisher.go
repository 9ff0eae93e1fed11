package event

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/viant/mvplanning/service/messaging"
)

// Publisher publishes typed events to a queue
type Publisher[T any] struct {
	queue  messaging.Queue[Event[T]]
	mirror func() *Publisher[any]
	logger *logrus.Entry
}

// NewPublisher creates a publisher
func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{queue: queue}
}

// Publish publishes an event; when a catch-all listener is registered the
// event is also forwarded to it.
func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	event.CreatedAt = time.Now()
	if p.mirror != nil {
		if anyPublisher := p.mirror(); anyPublisher != nil {
			err := anyPublisher.queue.Publish(ctx, &Event[any]{
				Context:   event.Context,
				CreatedAt: event.CreatedAt,
				Metadata:  event.Metadata,
				Data:      event.Data,
			})
			if err != nil && p.logger != nil {
				entry := p.logger.WithError(err)
				if event.Context != nil {
					entry = entry.WithField("eventType", event.Context.EventType)
				}
				entry.Warn("failed to forward event to catch-all listener")
			}
		}
	}
	return p.queue.Publish(ctx, event)
}

// Consume returns the next event, or (nil, nil) when none is available yet
func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}
