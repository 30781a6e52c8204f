// Package strings contains small string guard helpers shared across modules
package strings

import "strings"

// MustString panics when s is empty; label names the offender in the panic
func MustString(s, label string) string {
	if strings.TrimSpace(s) == "" {
		panic("empty " + label)
	}
	return s
}

// MustPrefix validates a route prefix: empty is allowed, otherwise it must start with /
func MustPrefix(s string) string {
	if s == "" {
		return s
	}
	if !strings.HasPrefix(s, "/") {
		panic("route prefix must start with /: " + s)
	}
	return s
}

// IfEmpty returns def when xs is empty, xs otherwise
func IfEmpty(xs, def []string) []string {
	if len(xs) == 0 {
		return def
	}
	return xs
}
