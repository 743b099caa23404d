package cache

import "strings"

// Wildcard is the suffix that turns an invalidation key into a broad match:
// "emp_A*" removes every key containing "emp_A".
const Wildcard = "*"

// Key joins parts into a canonical cache key, e.g. Key("tasks", "list", sig).
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// splitPattern returns the literal token of an invalidation pattern and
// whether the pattern carried a wildcard.
func splitPattern(pattern string) (string, bool) {
	i := strings.Index(pattern, Wildcard)
	if i < 0 {
		return pattern, false
	}
	return pattern[:i], true
}
