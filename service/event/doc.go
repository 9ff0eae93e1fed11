// Package event implements a typed publish/subscribe bus on top of the
// messaging queues. Each payload type gets its own queue; a catch-all
// listener can observe every event as Event[any].
package event
