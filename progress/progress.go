package progress

import (
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the allocator.
// Fields are signed; Pending goes down when a queued task is drained or expires.
type Delta struct {
	Submitted        int
	Allocated        int
	Queued           int
	Drained          int
	DeliveryFailures int
	Expired          int
	Pending          int
}

// Progress keeps aggregated allocation counters. It is safe for concurrent use.
type Progress struct {
	StartedAt time.Time

	Submitted        int
	Allocated        int
	Queued           int
	Drained          int
	DeliveryFailures int
	Expired          int
	Pending          int

	mu       sync.Mutex
	onChange func(Snapshot)
}

// Snapshot is a lock-free copy of the counters
type Snapshot struct {
	StartedAt        time.Time `json:"startedAt"`
	Submitted        int       `json:"submitted"`
	Allocated        int       `json:"allocated"`
	Queued           int       `json:"queued"`
	Drained          int       `json:"drained"`
	DeliveryFailures int       `json:"deliveryFailures"`
	Expired          int       `json:"expired"`
	Pending          int       `json:"pending"`
}

// New creates a tracker
func New(onChange func(Snapshot)) *Progress {
	return &Progress{StartedAt: time.Now(), onChange: onChange}
}

// Update applies the supplied delta. The onChange callback, if any, is
// invoked outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.Submitted += d.Submitted
	p.Allocated += d.Allocated
	p.Queued += d.Queued
	p.Drained += d.Drained
	p.DeliveryFailures += d.DeliveryFailures
	p.Expired += d.Expired
	p.Pending += d.Pending
	snapshot := p.snapshot()
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the counters
func (p *Progress) Snapshot() Snapshot {
	if p == nil {
		return Snapshot{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

func (p *Progress) snapshot() Snapshot {
	return Snapshot{
		StartedAt:        p.StartedAt,
		Submitted:        p.Submitted,
		Allocated:        p.Allocated,
		Queued:           p.Queued,
		Drained:          p.Drained,
		DeliveryFailures: p.DeliveryFailures,
		Expired:          p.Expired,
		Pending:          p.Pending,
	}
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables the callback.
func (p *Progress) OnChange(cb func(Snapshot)) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onChange = cb
	p.mu.Unlock()
}
