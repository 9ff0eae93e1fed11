// Package availability defines how the allocator learns about vehicle
// availability: a point-in-time Oracle and an event-driven Notifier.
package availability

import (
	"context"
	"time"
)

// Oracle answers whether a vehicle can currently accept a plan
type Oracle interface {
	IsAvailable(ctx context.Context, vehicle string) bool
}

// Handler is invoked when a vehicle becomes available
type Handler func(ctx context.Context, vehicle string)

// Notifier delivers vehicle-became-available events to subscribed handlers.
// Delivery is at-least-once; handlers must tolerate duplicates.
type Notifier interface {
	Subscribe(handler Handler) error
}

// VehicleAvailable is published when a vehicle transitions to available
type VehicleAvailable struct {
	Vehicle string    `json:"vehicle"`
	At      time.Time `json:"at"`
}

// OracleFunc adapts a function to Oracle
type OracleFunc func(ctx context.Context, vehicle string) bool

// IsAvailable implements Oracle
func (f OracleFunc) IsAvailable(ctx context.Context, vehicle string) bool {
	return f(ctx, vehicle)
}
