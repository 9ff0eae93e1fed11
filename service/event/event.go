package event

import "time"

// Context describes the origin of an event
type Context struct {
	EventType string `json:"eventType"`
	Source    string `json:"source,omitempty"`
	PlanID    string `json:"planId,omitempty"`
	ProfileID string `json:"profileId,omitempty"`
	Vehicle   string `json:"vehicle,omitempty"`
}

// Event wraps a typed payload
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

// NewEvent creates an event
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
