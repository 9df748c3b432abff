// Package utils provides small helpers with no domain logic of their own.
package utils

import "strconv"

// AtoiDefault parses s as an int, returning def when s is empty or not a
// plain integer. Handlers use it for optional numeric query parameters,
// where "absent" and "garbage" both mean "use the default". Input is not
// trimmed: " 42" is garbage.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
