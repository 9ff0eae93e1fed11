// Package memory provides an in-process availability tracker that acts as
// both Oracle and Notifier.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/viant/mvplanning/internal/clock"
	"github.com/viant/mvplanning/service/availability"
	"github.com/viant/mvplanning/service/event"
)

const eventType = "vehicle.available"

// Tracker keeps per-vehicle availability and publishes VehicleAvailable
// events through the event bus.
type Tracker struct {
	mux       sync.RWMutex
	available map[string]bool
	handlers  []availability.Handler
	events    *event.Service
	publisher *event.Publisher[availability.VehicleAvailable]
}

// New creates a tracker publishing through the supplied event service
func New(events *event.Service) (*Tracker, error) {
	if events == nil {
		return nil, fmt.Errorf("event service was nil")
	}
	publisher, err := event.PublisherOf[availability.VehicleAvailable](events)
	if err != nil {
		return nil, fmt.Errorf("failed to create availability publisher: %w", err)
	}
	return &Tracker{
		available: make(map[string]bool),
		events:    events,
		publisher: publisher,
	}, nil
}

// IsAvailable implements availability.Oracle
func (t *Tracker) IsAvailable(_ context.Context, vehicle string) bool {
	t.mux.RLock()
	defer t.mux.RUnlock()
	return t.available[vehicle]
}

// SetAvailable records vehicle availability. Marking a vehicle available
// always publishes an event, even if it was already available.
func (t *Tracker) SetAvailable(ctx context.Context, vehicle string, available bool) error {
	t.mux.Lock()
	t.available[vehicle] = available
	t.mux.Unlock()
	if !available {
		return nil
	}
	evt := event.NewEvent(&event.Context{EventType: eventType, Source: "tracker", Vehicle: vehicle},
		availability.VehicleAvailable{Vehicle: vehicle, At: clock.Now()})
	if err := t.publisher.Publish(ctx, evt); err != nil {
		return fmt.Errorf("failed to publish availability of %s: %w", vehicle, err)
	}
	return nil
}

// Available returns the sorted ids of vehicles currently available
func (t *Tracker) Available() []string {
	t.mux.RLock()
	defer t.mux.RUnlock()
	var ret []string
	for vehicle, ok := range t.available {
		if ok {
			ret = append(ret, vehicle)
		}
	}
	sort.Strings(ret)
	return ret
}

// Subscribe implements availability.Notifier
func (t *Tracker) Subscribe(handler availability.Handler) error {
	if handler == nil {
		return fmt.Errorf("handler was nil")
	}
	t.mux.Lock()
	t.handlers = append(t.handlers, handler)
	first := len(t.handlers) == 1
	t.mux.Unlock()
	if !first {
		return nil
	}
	return event.SetListenerOf[availability.VehicleAvailable](t.events, t.dispatch)
}

func (t *Tracker) dispatch(evt *event.Event[availability.VehicleAvailable]) {
	t.mux.RLock()
	handlers := append([]availability.Handler{}, t.handlers...)
	t.mux.RUnlock()
	ctx := context.Background()
	for _, handler := range handlers {
		handler(ctx, evt.Data.Vehicle)
	}
}

var _ availability.Oracle = (*Tracker)(nil)
var _ availability.Notifier = (*Tracker)(nil)
