// Package normalize provides utilities for normalizing and sanitizing user input.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any run of non-alphanumeric characters.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify converts a string to a URL-safe slug.
// "Best of 2024" -> "best-of-2024".
// "Amélie & Friends" -> "amelie-friends".
// "Sci-Fi/Horror" -> "sci-fi-horror".
func Slugify(s string) string {
	// Decompose accented characters so the base letter survives.
	s = norm.NFKD.String(s)

	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Text trims surrounding whitespace and drops null bytes, which SQLite and
// JSON clients handle poorly.
func Text(s string) string {
	return strings.TrimSpace(sanitizeString(s))
}

func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
}
