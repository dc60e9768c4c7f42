// Package exchanger correlates reflected waves back to the directed
// wave that requested them.
package exchanger

import (
	"sync"
	"time"

	"github.com/starlane-io/starlane/wave"
)

// Aggregate is delivered once a waiter's expectation is satisfied or its
// deadline passes.
type Aggregate struct {
	Reflected []*wave.Wave
	// TimedOut is set when the deadline passed before the expected count
	// (Ping: 1, Ripple+Count(n): n) was reached. Never set for Timer
	// bounce-backs, whose deadline is their normal resolution.
	TimedOut bool
}

type waiter struct {
	mu        sync.Mutex
	expect    int  // 0 means "collect until deadline", used by Timer bounce-backs
	byTimer   bool // Timer bounce-backs: deadline is normal completion, not a timeout
	collected []*wave.Wave
	resolved  bool
	result    chan Aggregate
	timer     *time.Timer
}

// Table is the sender-side exchange table: one entry per wave id that
// expects a reflected reply, keyed by the id of the directed wave that
// was sent.
type Table struct {
	mu      sync.Mutex
	waiters map[wave.Id]*waiter
}

func NewTable() *Table {
	return &Table{waiters: make(map[wave.Id]*waiter)}
}

// Register allocates a result channel for a just-sent directed wave,
// per the contractual table: Ping expects 1 Pong; Ripple with
// Count(n) expects n Echoes; Ripple with Timer(d) collects until d
// elapses; Signal and Ripple with None get no entry at all (nil, false).
func (t *Table) Register(w *wave.Wave) (<-chan Aggregate, bool) {
	var expect int
	var deadline time.Duration

	switch w.Id.Kind {
	case wave.KindPing:
		expect = 1
		deadline = wave.WaitSeconds(w.Handling.Wait)
	case wave.KindRipple:
		switch w.BounceBacks.Kind {
		case wave.BounceBacksNone:
			return nil, false
		case wave.BounceBacksSingle:
			expect = 1
			deadline = wave.WaitSeconds(w.Handling.Wait)
		case wave.BounceBacksCount:
			expect = w.BounceBacks.Count
			deadline = wave.WaitSeconds(w.Handling.Wait)
		case wave.BounceBacksTimer:
			expect = 0
			deadline = wave.WaitSeconds(w.BounceBacks.Timer)
		}
	default:
		return nil, false
	}

	wtr := &waiter{expect: expect, byTimer: expect == 0, result: make(chan Aggregate, 1)}
	t.mu.Lock()
	t.waiters[w.Id] = wtr
	t.mu.Unlock()

	wtr.timer = time.AfterFunc(deadline, func() { t.resolve(w.Id, wtr, true) })
	return wtr.result, true
}

// Deliver routes an inbound reflected wave to the waiter named by its
// ReflectionOf, appending it to the aggregate and resolving the waiter
// once its expected count is reached (for Count/Single/Ping waiters;
// Timer waiters only resolve on deadline). Reports false if no waiter is
// registered for that id.
func (t *Table) Deliver(reflected *wave.Wave) bool {
	t.mu.Lock()
	wtr, ok := t.waiters[reflected.ReflectionOf]
	t.mu.Unlock()
	if !ok {
		return false
	}

	wtr.mu.Lock()
	if wtr.resolved {
		wtr.mu.Unlock()
		return false
	}
	wtr.collected = append(wtr.collected, reflected)
	saturated := wtr.expect > 0 && len(wtr.collected) >= wtr.expect
	wtr.mu.Unlock()

	if saturated {
		t.resolve(reflected.ReflectionOf, wtr, false)
	}
	return true
}

func (t *Table) resolve(id wave.Id, wtr *waiter, timedOut bool) {
	wtr.mu.Lock()
	if wtr.resolved {
		wtr.mu.Unlock()
		return
	}
	wtr.resolved = true
	if wtr.timer != nil {
		wtr.timer.Stop()
	}
	collected := wtr.collected
	byTimer := wtr.byTimer
	wtr.mu.Unlock()

	t.mu.Lock()
	delete(t.waiters, id)
	t.mu.Unlock()

	// A Timer waiter's deadline is its contract, not a failure.
	wtr.result <- Aggregate{Reflected: collected, TimedOut: timedOut && !byTimer}
}

// Len reports how many waiters are currently open.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.waiters)
}
