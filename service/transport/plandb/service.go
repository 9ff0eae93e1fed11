// Package plandb delivers plans to vehicles as plan database "set" requests.
package plandb

import (
	"context"
	"fmt"

	"github.com/viant/mvplanning/internal/clock"
	"github.com/viant/mvplanning/internal/idgen"
	"github.com/viant/mvplanning/model"
	"github.com/viant/mvplanning/service/transport"
)

// Service builds PlanDB requests and passes them to a Sender
type Service struct {
	sender   Sender
	sequence *idgen.Sequence
	info     string
}

// Option customises the service
type Option func(s *Service)

// WithInfo overrides the request info text
func WithInfo(info string) Option {
	return func(s *Service) {
		s.info = info
	}
}

// WithSequence sets the request id sequence
func WithSequence(sequence *idgen.Sequence) Option {
	return func(s *Service) {
		s.sequence = sequence
	}
}

// New creates a PlanDB transport
func New(sender Sender, opts ...Option) *Service {
	ret := &Service{sender: sender, info: DefaultInfo}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.sequence == nil {
		ret.sequence = &idgen.Sequence{}
	}
	return ret
}

// NewRequest builds a set request for task
func (s *Service) NewRequest(vehicle string, task *model.PlanTask) *Request {
	return &Request{
		Type:      TypeRequest,
		Op:        OpSet,
		RequestID: s.sequence.Next(),
		PlanID:    task.PlanID,
		Vehicle:   vehicle,
		Arg:       append([]byte{}, task.Payload...),
		Info:      s.info,
		CreatedAt: clock.Now(),
	}
}

// DeliverWithReceipt implements transport.Receipted
func (s *Service) DeliverWithReceipt(ctx context.Context, vehicle string, task *model.PlanTask) (int64, error) {
	if task == nil {
		return 0, fmt.Errorf("task was nil")
	}
	request := s.NewRequest(vehicle, task)
	if err := s.sender.Send(ctx, request); err != nil {
		return 0, fmt.Errorf("failed to send plan %s to %s: %w", task.PlanID, vehicle, err)
	}
	return request.RequestID, nil
}

// Deliver implements transport.Service
func (s *Service) Deliver(ctx context.Context, vehicle string, task *model.PlanTask) error {
	_, err := s.DeliverWithReceipt(ctx, vehicle, task)
	return err
}

var _ transport.Receipted = (*Service)(nil)
