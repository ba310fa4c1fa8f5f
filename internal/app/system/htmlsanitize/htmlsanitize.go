// Package htmlsanitize wraps bluemonday policies for user-generated text.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps safe formatting markup (bold, lists, links) and strips
// scripts and event handlers. Use for long-form descriptions.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// Text strips all markup. Use for titles, names, and other single-line
// fields that should never contain HTML.
func Text(s string) string {
	return strict.Sanitize(s)
}
