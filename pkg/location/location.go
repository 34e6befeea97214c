package location

import "strings"

// Normalize canonicalizes a location name for comparison: trim, lowercase,
// collapse runs of whitespace to a single space. Anything after the place
// name (county or borough qualifiers) is kept, so "London, City of
// Westminster" and "London Apprentice, Cornwall" stay distinct. Empty input
// passes through unchanged.
func Normalize(loc string) string {
	if loc == "" {
		return loc
	}
	return strings.Join(strings.Fields(strings.ToLower(loc)), " ")
}

// Same reports whether two location names are equal after normalization.
func Same(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
