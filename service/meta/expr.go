package meta

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// expandEnv replaces ${env.KEY} with the value of KEY, empty when unset.
// Malformed expressions are kept literally.
func expandEnv(value string) string {
	if !strings.Contains(value, envPrefix) {
		return value
	}
	var b strings.Builder
	for offset := 0; ; {
		idx := strings.Index(value[offset:], envPrefix)
		if idx < 0 {
			b.WriteString(value[offset:])
			return b.String()
		}
		b.WriteString(value[offset : offset+idx])
		start := offset + idx + len(envPrefix)
		end := strings.IndexByte(value[start:], '}')
		if end < 0 {
			b.WriteString(value[offset+idx:])
			return b.String()
		}
		key := value[start : start+end]
		if !isEnvKey(key) {
			// rescan after the prefix so nested expressions still expand
			b.WriteString(envPrefix)
			offset = start
			continue
		}
		b.WriteString(os.Getenv(key))
		offset = start + end + 1
	}
}

func isEnvKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
