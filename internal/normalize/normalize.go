package normalize

import "strings"

// Email returns a normalized form of an email address suitable for
// comparisons. Normalization trims surrounding whitespace and
// lower-cases the address.
func Email(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Username maps a display name to the identifier used in per-user
// storage file names: lower-cased, spaces replaced with underscores.
// Distinct display names can collide after normalization; callers
// accept that.
func Username(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
