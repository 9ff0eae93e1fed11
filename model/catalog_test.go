package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCatalog(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expectErr bool
		expect    []*Profile
	}{
		{
			name: "valid catalog",
			input: `profiles:
  - id: survey
    vehicles: [lauv-xplore-1, lauv-xplore-2]
  - id: empty
`,
			expect: []*Profile{
				{ID: "survey", Vehicles: []string{"lauv-xplore-1", "lauv-xplore-2"}},
				{ID: "empty"},
			},
		},
		{
			name: "duplicate vehicle",
			input: `profiles:
  - id: survey
    vehicles: [a, a]
`,
			expectErr: true,
		},
		{
			name: "duplicate profile",
			input: `profiles:
  - id: survey
  - id: survey
`,
			expectErr: true,
		},
		{
			name:      "malformed",
			input:     "profiles: [",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			catalog, err := DecodeCatalog([]byte(tc.input))
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, catalog.Profiles)
		})
	}
}

func TestPlanTask_Clone(t *testing.T) {
	task := NewPlanTask("p1", NewProfile("survey", "a", "b"), []byte(`{"maneuvers":[]}`))
	clone := task.Clone()
	clone.Profile.Vehicles[0] = "z"
	assert.Equal(t, "a", task.Profile.Vehicles[0])
	assert.True(t, task.Eligible("b"))
	assert.False(t, task.Eligible("z"))
	assert.Equal(t, "survey", clone.ProfileID())
}
