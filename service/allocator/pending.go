package allocator

import (
	"slices"
	"time"

	"github.com/viant/mvplanning/model"
)

type entry struct {
	seq      uint64
	queuedAt time.Time
	task     *model.PlanTask
}

// pending is a FIFO of tasks waiting for a vehicle plus the tasks that
// expired while waiting. It is guarded by the service lock.
type pending struct {
	entries []*entry
	dead    []*model.PlanTask
	nextSeq uint64
}

func (p *pending) push(task *model.PlanTask, at time.Time) {
	p.nextSeq++
	p.entries = append(p.entries, &entry{seq: p.nextSeq, queuedAt: at, task: task})
}

// takeFirst removes and returns the oldest entry queued after seq and
// accepted by match. A zero seq considers every entry.
func (p *pending) takeFirst(seq uint64, match func(task *model.PlanTask) bool) *entry {
	for i, e := range p.entries {
		if e.seq > seq && match(e.task) {
			p.entries = slices.Delete(p.entries, i, i+1)
			return e
		}
	}
	return nil
}

// reinsert puts a taken entry back at its original queue position
func (p *pending) reinsert(e *entry) {
	index, _ := slices.BinarySearchFunc(p.entries, e.seq, func(candidate *entry, seq uint64) int {
		switch {
		case candidate.seq < seq:
			return -1
		case candidate.seq > seq:
			return 1
		}
		return 0
	})
	p.entries = slices.Insert(p.entries, index, e)
}

// expire moves entries queued at or before deadline to the dead letters
func (p *pending) expire(deadline time.Time) []*model.PlanTask {
	var expired []*model.PlanTask
	kept := p.entries[:0]
	for _, e := range p.entries {
		if !e.queuedAt.After(deadline) {
			e.task.State = model.TaskStateExpired
			expired = append(expired, e.task)
			continue
		}
		kept = append(kept, e)
	}
	clear(p.entries[len(kept):])
	p.entries = kept
	p.dead = append(p.dead, expired...)
	return expired
}

func (p *pending) size() int {
	return len(p.entries)
}

func (p *pending) tasks() []*model.PlanTask {
	ret := make([]*model.PlanTask, 0, len(p.entries))
	for _, e := range p.entries {
		ret = append(ret, e.task.Clone())
	}
	return ret
}

func (p *pending) deadLetters() []*model.PlanTask {
	ret := make([]*model.PlanTask, 0, len(p.dead))
	for _, task := range p.dead {
		ret = append(ret, task.Clone())
	}
	return ret
}
