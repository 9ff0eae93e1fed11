package allocator

import "errors"

var (
	// ErrInvalidTask is returned for tasks that can never be allocated.
	ErrInvalidTask = errors.New("allocator: invalid task")

	// ErrInvalidVehicle is returned for an empty vehicle id.
	ErrInvalidVehicle = errors.New("allocator: invalid vehicle")
)
