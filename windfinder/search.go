package windfinder

import "github.com/starlane-io/starlane/lane"

// HardMaxHops is the absolute ceiling on a search's hop count regardless
// of what the originator requested.
const HardMaxHops = 32

// WindUp is the pathfinding request frame: carries the originator, the
// pattern being searched for, the path visited so far, and the chain of
// transaction ids opened at each relaying star.
type WindUp struct {
	From         lane.StarKey
	Pattern      Pattern
	Hops         []lane.StarKey
	Transactions []string
	MaxHops      int
}

// EffectiveMaxHops clamps MaxHops to HardMaxHops.
func (w WindUp) EffectiveMaxHops() int {
	if w.MaxHops <= 0 || w.MaxHops > HardMaxHops {
		return HardMaxHops
	}
	return w.MaxHops
}

// Hit is a single star's reported match, with its hop distance from the
// star that originated the search.
type Hit struct {
	Star lane.StarKey
	Hops int
}

// WindDown is the pathfinding response frame, travelling back along the
// reverse of the Hops path recorded in the WindUp.
type WindDown struct {
	Tid  string
	Hits []Hit
}
