package model

import (
	"fmt"
	"slices"
)

// Profile represents a named group of vehicles eligible to execute the same
// kind of plans. Vehicles are kept in their initial allocation order.
type Profile struct {
	ID          string   `json:"id" yaml:"id"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Vehicles    []string `json:"vehicles" yaml:"vehicles"`
}

// NewProfile creates a profile
func NewProfile(id string, vehicles ...string) *Profile {
	return &Profile{ID: id, Vehicles: vehicles}
}

// Validate performs structural validation of the profile. The returned slice
// is empty when the profile is sound.
func (p *Profile) Validate() []error {
	var issues []error
	if p.ID == "" {
		issues = append(issues, fmt.Errorf("profile id is empty"))
	}
	seen := make(map[string]bool, len(p.Vehicles))
	for _, vehicle := range p.Vehicles {
		if vehicle == "" {
			issues = append(issues, fmt.Errorf("profile %q: empty vehicle id", p.ID))
			continue
		}
		if seen[vehicle] {
			issues = append(issues, fmt.Errorf("profile %q: duplicate vehicle %q", p.ID, vehicle))
		}
		seen[vehicle] = true
	}
	return issues
}

// Contains returns true if vehicle belongs to the profile roster
func (p *Profile) Contains(vehicle string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Vehicles, vehicle)
}

// Clone returns a deep copy of the profile
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	ret := *p
	ret.Vehicles = slices.Clone(p.Vehicles)
	return &ret
}
