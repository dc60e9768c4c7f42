package lane

import (
	"fmt"
	"sync"
)

// Registry is a star's bookkeeping of its confirmed lanes (keyed by
// remote star) and its proto-lanes awaiting identification.
type Registry struct {
	mu        sync.RWMutex
	lanes     map[StarKey]*Lane
	protos    []*ProtoLane
	nextSeq   int
}

func NewRegistry() *Registry {
	return &Registry{lanes: make(map[StarKey]*Lane)}
}

// AddProto registers a freshly-connected, not-yet-identified lane.
func (r *Registry) AddProto(p *ProtoLane) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.protos = append(r.protos, p)
}

// ConfirmProto promotes a proto-lane (matched by its Transport identity)
// into a confirmed Lane for remote, removing it from the proto list.
func (r *Registry) ConfirmProto(p *ProtoLane, remote StarKey) (*Lane, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, cand := range r.protos {
		if cand == p {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("lane: proto-lane not registered")
	}
	r.protos = append(r.protos[:idx], r.protos[idx+1:]...)

	l := p.Promote(remote, r.nextSeq)
	r.nextSeq++
	r.lanes[remote] = l
	return l, nil
}

// Add directly inserts a confirmed lane for remote, for callers that
// already know the remote star's identity up front (e.g. a statically
// configured peer list) and so have no proto-lane handshake to promote.
func (r *Registry) Add(remote StarKey, transport Transport) *Lane {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := NewLane(remote, transport, r.nextSeq)
	r.nextSeq++
	r.lanes[remote] = l
	return l
}

// Remove drops a confirmed lane, e.g. on transport close.
func (r *Registry) Remove(remote StarKey) (*Lane, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lanes[remote]
	if ok {
		delete(r.lanes, remote)
	}
	return l, ok
}

// Get returns the confirmed lane to remote, if any. This is the direct
// neighbor case, distinct from BestFor which picks among lanes by hops.
func (r *Registry) Get(remote StarKey) (*Lane, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.lanes[remote]
	return l, ok
}

// Lanes returns a snapshot of all confirmed lanes.
func (r *Registry) Lanes() []*Lane {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Lane, 0, len(r.lanes))
	for _, l := range r.lanes {
		out = append(out, l)
	}
	return out
}

// Len reports the number of confirmed lanes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lanes)
}

// BestFor selects the lane with the minimum recorded hop count to star,
// breaking ties by insertion order (the lane registered earliest wins).
// Returns ok=false whenever no lane has path knowledge of star, even if
// a direct neighbor lane to star exists (use Get for that).
func (r *Registry) BestFor(star StarKey) (*Lane, int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *Lane
	bestHops := -1
	for _, l := range r.lanes {
		hops, ok := l.Paths.HopsTo(star)
		if !ok {
			continue
		}
		if best == nil || hops < bestHops || (hops == bestHops && l.seq < best.seq) {
			best = l
			bestHops = hops
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestHops, true
}
