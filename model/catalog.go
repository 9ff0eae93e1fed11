package model

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Catalog represents a declarative set of profiles
type Catalog struct {
	Profiles []*Profile `json:"profiles" yaml:"profiles"`
}

// DecodeCatalog decodes YAML (or JSON) encoded catalog
func DecodeCatalog(data []byte) (*Catalog, error) {
	ret := &Catalog{}
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode profile catalog: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Validate validates all profiles and checks profile id uniqueness
func (c *Catalog) Validate() error {
	var issues []error
	seen := map[string]bool{}
	for _, profile := range c.Profiles {
		if profile == nil {
			continue
		}
		issues = append(issues, profile.Validate()...)
		if seen[profile.ID] {
			issues = append(issues, fmt.Errorf("duplicate profile %q", profile.ID))
		}
		seen[profile.ID] = true
	}
	return errors.Join(issues...)
}
