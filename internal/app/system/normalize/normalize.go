// Package normalize holds the input normalization applied before any user
// data reaches a store.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name but preserves its case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AuthMethod lowercases and trims an auth method value.
func AuthMethod(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status lowercases and trims an account status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a free-text query parameter, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Region trims a region name and collapses internal runs of spaces, so
// "Rift  Valley" and "Rift Valley" key the same weather alerts.
func Region(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
