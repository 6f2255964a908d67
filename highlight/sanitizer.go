// Package highlight renders untrusted text with every case-insensitive
// occurrence of a search term wrapped in a highlight marker.
//
// Source text is always treated as data: matches are located on the original
// text, and each segment between matches is HTML-escaped on its own before the
// marker is inserted, so the marker is the only markup in the output.
package highlight

import (
	"regexp"
	"strings"
)

// EscapeTerm escapes every pattern-special character of raw
// (. * + ? ^ $ { } ( ) | [ ] \) so it can be embedded in a regular expression
// as literal text. Empty and whitespace-only terms return "".
func EscapeTerm(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return regexp.QuoteMeta(raw)
}
