// Package transport defines how allocated plans reach vehicles.
package transport

import (
	"context"

	"github.com/viant/mvplanning/model"
)

// Service delivers a plan task to a vehicle. A nil error means the vehicle
// accepted the plan.
type Service interface {
	Deliver(ctx context.Context, vehicle string, task *model.PlanTask) error
}

// Receipted is implemented by transports that assign a request id to each
// delivery.
type Receipted interface {
	Service
	DeliverWithReceipt(ctx context.Context, vehicle string, task *model.PlanTask) (requestID int64, err error)
}

// Func adapts a function to Service
type Func func(ctx context.Context, vehicle string, task *model.PlanTask) error

// Deliver implements Service
func (f Func) Deliver(ctx context.Context, vehicle string, task *model.PlanTask) error {
	return f(ctx, vehicle, task)
}

// Deliver sends task through srv and returns the request id when srv
// supports receipts.
func Deliver(ctx context.Context, srv Service, vehicle string, task *model.PlanTask) (int64, error) {
	if receipted, ok := srv.(Receipted); ok {
		return receipted.DeliverWithReceipt(ctx, vehicle, task)
	}
	return 0, srv.Deliver(ctx, vehicle, task)
}
