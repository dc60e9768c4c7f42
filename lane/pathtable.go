package lane

import (
	"sync"

	"github.com/starlane-io/starlane/utils/linked"
)

// defaultPathTableCap bounds the number of (star, hops) entries a single
// lane's path table remembers before evicting the least-recently-touched.
const defaultPathTableCap = 4096

// PathTable is a single lane's memory of how many hops away each star is
// reachable through it, maintained as an LRU keyed by StarKey so a lane
// with many known stars doesn't grow unbounded.
type PathTable struct {
	mu  sync.RWMutex
	cap int
	m   *linked.Hashmap[StarKey, int]
}

// NewPathTable builds a PathTable with the default capacity.
func NewPathTable() *PathTable {
	return NewPathTableWithCap(defaultPathTableCap)
}

func NewPathTableWithCap(cap int) *PathTable {
	return &PathTable{cap: cap, m: linked.NewHashmap[StarKey, int]()}
}

// HopsTo reports the recorded hop count to star, if known.
func (t *PathTable) HopsTo(star StarKey) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	hops, ok := t.m.Get(star)
	if ok {
		t.m.Touch(star)
	}
	return hops, ok
}

// Record stores or updates the hop count for star, evicting the
// least-recently-touched entry if the table is at capacity. A report
// only ever lowers the remembered hop count: record(s, h1); record(s,
// h2) leaves min(h1, h2), not whichever arrived last. Recency is always
// bumped, even when the worse report is discarded, since either report
// is still fresh evidence that star is reachable through this lane.
func (t *PathTable) Record(star StarKey, hops int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	existing, exists := t.m.Get(star)
	if !exists && t.m.Len() >= t.cap {
		if oldest, _, ok := t.m.OldestEntry(); ok {
			t.m.Delete(oldest)
		}
	}
	if exists && existing < hops {
		hops = existing
	}
	t.m.Put(star, hops)
	t.m.Touch(star)
}

// Forget removes any recorded hop count for star.
func (t *PathTable) Forget(star StarKey) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m.Delete(star)
}

// Len reports how many stars this table currently remembers.
func (t *PathTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.m.Len()
}
