// Package hold implements the FrameHold: the per-destination queue a star
// buffers frames in while it has no known lane to reach that star.
package hold

import (
	"sync"

	"github.com/starlane-io/starlane/lane"
)

// DefaultMaxPerDestination bounds how many frames are buffered for a
// single destination star before the oldest is dropped to make room,
// so a star that never resolves a path cannot grow the hold unbounded
// or block the star loop.
const DefaultMaxPerDestination = 256

// Hold buffers frames addressed to stars this star has no lane to yet.
type Hold struct {
	mu       sync.Mutex
	cap      int
	queues   map[lane.StarKey][]lane.Frame
	dropped  map[lane.StarKey]int
}

func New() *Hold {
	return NewWithCap(DefaultMaxPerDestination)
}

func NewWithCap(cap int) *Hold {
	return &Hold{cap: cap, queues: make(map[lane.StarKey][]lane.Frame), dropped: make(map[lane.StarKey]int)}
}

// Push appends frame to star's queue, reporting true if this was the
// first frame queued for star (the caller should fire a path search in
// that case). If the queue is already at capacity the oldest frame is
// dropped and a counter incremented, visible via Dropped.
func (h *Hold) Push(star lane.StarKey, frame lane.Frame) (firstForDestination bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	q, exists := h.queues[star]
	firstForDestination = !exists || len(q) == 0
	if len(q) >= h.cap {
		q = q[1:]
		h.dropped[star]++
	}
	h.queues[star] = append(q, frame)
	return firstForDestination
}

// Drain removes and returns all held frames for star, e.g. on receiving
// ReleaseHold once a path has been found.
func (h *Hold) Drain(star lane.StarKey) []lane.Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	q := h.queues[star]
	delete(h.queues, star)
	return q
}

// Dropped reports how many frames have been dropped for star due to the
// capacity cap.
func (h *Hold) Dropped(star lane.StarKey) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped[star]
}

// Destinations returns the stars that currently have held frames.
func (h *Hold) Destinations() []lane.StarKey {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]lane.StarKey, 0, len(h.queues))
	for k, q := range h.queues {
		if len(q) > 0 {
			out = append(out, k)
		}
	}
	return out
}

// Len reports how many frames are held for star.
func (h *Hold) Len(star lane.StarKey) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queues[star])
}
