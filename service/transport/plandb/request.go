package plandb

import (
	"encoding/json"
	"time"
)

// Type is a PlanDB message type
type Type string

// Op is a PlanDB operation
type Op string

const (
	TypeRequest Type = "request"
	TypeSuccess Type = "success"
	TypeFailure Type = "failure"

	OpSet Op = "set"
	OpDel Op = "del"
	OpGet Op = "get"
)

// DefaultInfo is attached to every plan allocation request
const DefaultInfo = "Plan allocated by mvplanning allocator"

// Request is a plan database request addressed to a vehicle
type Request struct {
	Type      Type            `json:"type"`
	Op        Op              `json:"op"`
	RequestID int64           `json:"requestId"`
	PlanID    string          `json:"planId"`
	Vehicle   string          `json:"vehicle"`
	Arg       json.RawMessage `json:"arg,omitempty"`
	Info      string          `json:"info,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
