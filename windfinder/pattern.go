// Package windfinder implements the wind-up/wind-down pathfinding protocol
// stars use to discover how many hops away another star is.
package windfinder

import "github.com/starlane-io/starlane/lane"

// Pattern selects which star(s) a wind-up search is looking for.
type Pattern struct {
	// Exact, if set, matches only the star with this key.
	Exact string
	// SingleMatch, when true, means the search stops at the first hit
	// and a wind-down is emitted immediately rather than continuing to
	// relay.
	SingleMatch bool
}

// Matches reports whether star satisfies this pattern.
func (p Pattern) Matches(star lane.StarKey) bool {
	if p.Exact == "" {
		return false
	}
	return string(star) == p.Exact
}

// ExactPattern builds a single-match pattern for one star.
func ExactPattern(star lane.StarKey) Pattern {
	return Pattern{Exact: string(star), SingleMatch: true}
}
