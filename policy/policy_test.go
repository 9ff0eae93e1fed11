package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_IsAllowed(t *testing.T) {
	testCases := []struct {
		name    string
		policy  *Policy
		vehicle string
		expect  bool
	}{
		{name: "nil policy", vehicle: "a", expect: true},
		{name: "empty lists", policy: &Policy{}, vehicle: "a", expect: true},
		{name: "blocked", policy: &Policy{BlockList: []string{"A"}}, vehicle: "a", expect: false},
		{name: "not in allow list", policy: &Policy{AllowList: []string{"b"}}, vehicle: "a", expect: false},
		{name: "allowed", policy: &Policy{AllowList: []string{"a"}}, vehicle: "a", expect: true},
		{name: "block wins", policy: &Policy{AllowList: []string{"a"}, BlockList: []string{"a"}}, vehicle: "a", expect: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := WithPolicy(context.Background(), tc.policy)
			assert.Equal(t, tc.expect, FromContext(ctx).IsAllowed(tc.vehicle))
		})
	}
}

func TestConfigRoundTrip(t *testing.T) {
	p := &Policy{AllowList: []string{"a"}, BlockList: []string{"b"}}
	assert.Equal(t, p, FromConfig(ToConfig(p)))
	assert.Nil(t, FromConfig(nil))
}
