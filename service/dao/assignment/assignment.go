// Package assignment defines the ledger of successful plan deliveries.
package assignment

import (
	"github.com/viant/mvplanning/model"
	"github.com/viant/mvplanning/service/dao"
)

// List parameter names
const (
	ParamPlanID    = "PlanID"
	ParamProfileID = "ProfileID"
	ParamVehicle   = "Vehicle"
)

// DAO stores assignments keyed by id
type DAO = dao.Service[string, model.Assignment]

// Fields exposes filterable assignment fields
func Fields(a *model.Assignment) func(name string) (string, bool) {
	return func(name string) (string, bool) {
		switch name {
		case ParamPlanID:
			return a.PlanID, true
		case ParamProfileID:
			return a.ProfileID, true
		case ParamVehicle:
			return a.Vehicle, true
		}
		return "", false
	}
}

// Less orders assignments by allocation time then id
func Less(a, b *model.Assignment) bool {
	if !a.AllocatedAt.Equal(b.AllocatedAt) {
		return a.AllocatedAt.Before(b.AllocatedAt)
	}
	return a.ID < b.ID
}
