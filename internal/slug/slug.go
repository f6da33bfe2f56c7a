package slug

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// Make lower-cases a display name and replaces whitespace runs with hyphens,
// the same derivation the booking deep links use. Two differently-named
// entities can slugify identically; lookups treat that as ambiguous rather
// than picking a winner.
func Make(name string) string {
	return strings.ToLower(whitespace.ReplaceAllString(strings.TrimSpace(name), "-"))
}

// MatchOne finds the single name whose slug equals want. The bool reports
// whether exactly one matched; more than one match returns ok=false with
// ambiguous=true.
func MatchOne(names []string, want string) (idx int, ok bool, ambiguous bool) {
	idx = -1
	for i, n := range names {
		if Make(n) != want {
			continue
		}
		if idx >= 0 {
			return -1, false, true
		}
		idx = i
	}
	return idx, idx >= 0, false
}
