package model

import "time"

// Assignment records a successful plan delivery
type Assignment struct {
	ID          string    `json:"id" yaml:"id"`
	PlanID      string    `json:"planId" yaml:"planId"`
	ProfileID   string    `json:"profileId" yaml:"profileId"`
	Vehicle     string    `json:"vehicle" yaml:"vehicle"`
	RequestID   int64     `json:"requestId,omitempty" yaml:"requestId,omitempty"`
	Drained     bool      `json:"drained" yaml:"drained"` // true when allocated from the pending queue
	AllocatedAt time.Time `json:"allocatedAt" yaml:"allocatedAt"`
}
