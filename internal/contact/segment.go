// Package contact turns extracted fields into the record the vCard serializer consumes.
package contact

import "strings"

// SplitName splits a full name (or its reading) into family and given parts.
//
// With a space, the split is at the first space and the given part keeps any
// further spaces. Without one, the string is cut in half by character count
// with the family part taking the shorter half. This is a heuristic for
// names printed without a separator, not a linguistic parser.
func SplitName(s string) (family, given string) {
	if before, after, ok := strings.Cut(s, " "); ok {
		return before, after
	}
	runes := []rune(s)
	mid := len(runes) / 2
	return string(runes[:mid]), string(runes[mid:])
}
