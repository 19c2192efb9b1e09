// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases s, folds accented letters to their base form, collapses every
// run of characters outside [a-z0-9] into a single "-" and trims leading and
// trailing dashes. "Café Acme, Inc." becomes "cafe-acme-inc".
func Make(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}

	out := nonAlphanumeric.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(out, "-")
}
