package idgen

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// NewFunc returns a new globally unique identifier as string.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier.
func New() string { return NewFunc() }

// Sequence generates monotonically increasing request ids; the zero value
// starts at 1.
type Sequence struct {
	last atomic.Int64
}

// Next returns the next id in the sequence
func (s *Sequence) Next() int64 {
	return s.last.Add(1)
}
