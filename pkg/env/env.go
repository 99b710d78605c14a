// Package env reads process environment variables with fallbacks, for
// the few knobs (log format, port overrides) that sit outside the
// envconfig tree.
package env

import (
	"os"
	"strings"
)

// Get returns the named variable, or fallback when it is unset or
// blank.
func Get(key, fallback string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	return val
}
