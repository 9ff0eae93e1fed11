package model

import (
	"encoding/json"
	"time"
)

// TaskState represents the allocation state of a plan task
type TaskState string

const (
	TaskStateSubmitted  TaskState = "submitted"
	TaskStateAllocating TaskState = "allocating"
	TaskStatePending    TaskState = "pending"
	TaskStateAllocated  TaskState = "allocated"
	// TaskStateExpired is only reached when a pending TTL is configured.
	TaskStateExpired TaskState = "expired"
)

// IsTerminal returns true when no further allocation is attempted
func (t TaskState) IsTerminal() bool {
	return t == TaskStateAllocated || t == TaskStateExpired
}

// Specification is the opaque plan specification delivered to a vehicle
type Specification = json.RawMessage

// PlanTask represents a unit of work produced by the planner
type PlanTask struct {
	PlanID      string        `json:"planId" yaml:"planId" valid:"required"`
	Profile     *Profile      `json:"profile" yaml:"profile" valid:"required"`
	Payload     Specification `json:"payload" yaml:"payload"`
	State       TaskState     `json:"state,omitempty" yaml:"state,omitempty"`
	Vehicle     string        `json:"vehicle,omitempty" yaml:"vehicle,omitempty"`
	SubmittedAt time.Time     `json:"submittedAt" yaml:"submittedAt"`
	AllocatedAt *time.Time    `json:"allocatedAt,omitempty" yaml:"allocatedAt,omitempty"`
}

// NewPlanTask creates a plan task
func NewPlanTask(planID string, profile *Profile, payload []byte) *PlanTask {
	return &PlanTask{
		PlanID:  planID,
		Profile: profile,
		Payload: payload,
		State:   TaskStateSubmitted,
	}
}

// ProfileID returns task profile id or empty string
func (t *PlanTask) ProfileID() string {
	if t.Profile == nil {
		return ""
	}
	return t.Profile.ID
}

// Eligible returns true if vehicle belongs to the task profile
func (t *PlanTask) Eligible(vehicle string) bool {
	return t.Profile.Contains(vehicle)
}

// Clone returns a copy of the task; the payload is shared as it is never mutated.
func (t *PlanTask) Clone() *PlanTask {
	if t == nil {
		return nil
	}
	ret := *t
	ret.Profile = t.Profile.Clone()
	if t.AllocatedAt != nil {
		at := *t.AllocatedAt
		ret.AllocatedAt = &at
	}
	return &ret
}

// Outcome represents the coarse result of an allocation attempt
type Outcome string

const (
	OutcomeAllocated Outcome = "allocated"
	OutcomeQueued    Outcome = "queued"
)
