package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/mvplanning/service/dao"
)

func TestMatches(t *testing.T) {
	record := map[string]string{"Vehicle": "v1", "ProfileID": "p1"}
	fields := func(name string) (string, bool) {
		v, ok := record[name]
		return v, ok
	}
	testCases := []struct {
		description string
		parameters  []*dao.Parameter
		expect      bool
	}{
		{description: "no parameters", expect: true},
		{description: "single match", parameters: []*dao.Parameter{dao.NewParameter("Vehicle", "v1")}, expect: true},
		{description: "single mismatch", parameters: []*dao.Parameter{dao.NewParameter("Vehicle", "v2")}, expect: false},
		{description: "any of", parameters: []*dao.Parameter{dao.NewParameter("Vehicle", "v2", "v1")}, expect: true},
		{description: "all must match", parameters: []*dao.Parameter{dao.NewParameter("Vehicle", "v1"), dao.NewParameter("ProfileID", "p2")}, expect: false},
		{description: "unknown field ignored", parameters: []*dao.Parameter{dao.NewParameter("Color", "red")}, expect: true},
		{description: "nil parameter", parameters: []*dao.Parameter{nil}, expect: true},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, Matches(fields, testCase.parameters), testCase.description)
	}
}
