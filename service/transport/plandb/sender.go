package plandb

import (
	"context"

	"github.com/viant/mvplanning/service/messaging"
)

// Sender hands a request to the vehicle link
type Sender interface {
	Send(ctx context.Context, request *Request) error
}

// SenderFunc adapts a function to Sender
type SenderFunc func(ctx context.Context, request *Request) error

// Send implements Sender
func (f SenderFunc) Send(ctx context.Context, request *Request) error {
	return f(ctx, request)
}

// QueueSender publishes requests to an outbound queue drained by the link layer
type QueueSender struct {
	queue messaging.Queue[Request]
}

// NewQueueSender creates a queue backed sender
func NewQueueSender(queue messaging.Queue[Request]) *QueueSender {
	return &QueueSender{queue: queue}
}

// Send implements Sender
func (s *QueueSender) Send(ctx context.Context, request *Request) error {
	return s.queue.Publish(ctx, request)
}

// Outbox returns the underlying queue
func (s *QueueSender) Outbox() messaging.Queue[Request] {
	return s.queue
}
