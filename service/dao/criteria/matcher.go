package criteria

import (
	"github.com/viant/mvplanning/service/dao"
)

// Fields exposes named record attributes to Matches
type Fields func(name string) (string, bool)

// Matches returns true when every parameter matches the record field of the
// same name. Parameters naming unknown fields are ignored.
func Matches(fields Fields, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		value, ok := fields(parameter.Name)
		if !ok {
			continue
		}
		if !matchValue(value, parameter.Value) {
			return false
		}
	}
	return true
}

func matchValue(value string, expected interface{}) bool {
	switch actual := expected.(type) {
	case string:
		return value == actual
	case []string:
		for _, s := range actual {
			if value == s {
				return true
			}
		}
		return false
	}
	return true
}
