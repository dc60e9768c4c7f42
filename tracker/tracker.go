// Package tracker implements delivery insurance for directed waves: when
// a wave leaves a star, a tracker waits for its reflection and resends on
// timeout per the wave's Handling directives.
package tracker

import (
	"sort"
	"sync"
	"time"

	"github.com/starlane-io/starlane/wave"
)

// tickEvery bounds how close together two expiries have to be to be
// treated as "due in the same tick" for priority ordering. Small next to
// every WaitTime duration in the contractual table, so it doesn't add
// meaningful latency to any single retry.
const tickEvery = 100 * time.Millisecond

// Outcome is delivered on a tracked wave's result channel.
type Outcome struct {
	// Reflected is set when a matching reflected wave arrived.
	Reflected *wave.Wave
	// TimedOut is set when retries were exhausted without a reflection
	// and the handling did not request retry_forever.
	TimedOut bool
}

// Resender is the star loop's narrow surface the tracker needs to resend
// a wave (possibly under a freshly-minted id, for retry_forever).
type Resender interface {
	Resend(w *wave.Wave) error
}

type entry struct {
	mu      sync.Mutex
	wave    *wave.Wave
	resend  Resender
	result  chan Outcome
	retries int
	closed  bool
	dueAt   time.Time
}

// Manager tracks in-flight directed waves awaiting a reflection. A
// single background tick drives expiry instead of one timer per entry,
// so that when several waves come due together, the higher-priority
// ones resend first (Handling.Priority - see tick).
type Manager struct {
	mu      sync.Mutex
	entries map[wave.Id]*entry

	ticker *time.Ticker
	done   chan struct{}
}

func NewManager() *Manager {
	m := &Manager{
		entries: make(map[wave.Id]*entry),
		ticker:  time.NewTicker(tickEvery),
		done:    make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *Manager) run() {
	for {
		select {
		case <-m.done:
			m.ticker.Stop()
			return
		case <-m.ticker.C:
			m.tick()
		}
	}
}

// Close stops the background tick goroutine. Safe to call once.
func (m *Manager) Close() {
	close(m.done)
}

// Track registers w for delivery insurance, returning a buffered result
// channel that receives exactly one Outcome. w must be a directed wave
// that is not itself an ack (the caller is responsible for that check,
// mirroring the same no-bounce exclusion that BounceBacks.HasBounce applies).
func (m *Manager) Track(resend Resender, w *wave.Wave) <-chan Outcome {
	e := &entry{
		wave:    w,
		resend:  resend,
		result:  make(chan Outcome, 1),
		retries: wave.RetryCount(w.Handling.Retries),
	}

	m.mu.Lock()
	m.entries[w.Id] = e
	m.mu.Unlock()

	m.arm(e)
	return e.result
}

func (m *Manager) arm(e *entry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.dueAt = time.Now().Add(wave.WaitSeconds(e.wave.Handling.Wait))
}

// tick collects every entry due by now and expires them in
// highest-Priority-first order, so when a batch comes due together a
// Hyper-priority retry is resent before a Low-priority one.
func (m *Manager) tick() {
	now := time.Now()

	m.mu.Lock()
	due := make([]*entry, 0, len(m.entries))
	for _, e := range m.entries {
		e.mu.Lock()
		if !e.closed && !e.dueAt.IsZero() && !e.dueAt.After(now) {
			due = append(due, e)
		}
		e.mu.Unlock()
	}
	m.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].priority() > due[j].priority()
	})

	for _, e := range due {
		m.onExpire(e)
	}
}

func (e *entry) priority() wave.Priority {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wave.Handling.Priority
}

func (m *Manager) onExpire(e *entry) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	if e.retries > 0 {
		e.retries--
		w := e.wave
		resend := e.resend
		e.mu.Unlock()

		_ = resend.Resend(w)
		m.arm(e)
		return
	}

	if e.wave.Handling.RetryForever {
		oldID := e.wave.Id
		fresh := *e.wave
		fresh.Id = wave.NewId(oldID.Kind)
		e.wave = &fresh
		e.retries = wave.RetryCount(fresh.Handling.Retries)
		resend := e.resend
		e.mu.Unlock()

		m.mu.Lock()
		delete(m.entries, oldID)
		m.entries[fresh.Id] = e
		m.mu.Unlock()

		_ = resend.Resend(&fresh)
		m.arm(e)
		return
	}

	e.closed = true
	e.mu.Unlock()

	m.remove(e.wave.Id)
	e.result <- Outcome{TimedOut: true}
}

// Deregister matches an incoming reflected wave against its tracker by
// reflection_of, delivering the reflection to the result channel and
// removing the tracker. Reports false if no tracker was registered for
// that id (e.g. a duplicate or unsolicited reflection).
func (m *Manager) Deregister(reflected *wave.Wave) bool {
	m.mu.Lock()
	e, ok := m.entries[reflected.ReflectionOf]
	if ok {
		delete(m.entries, reflected.ReflectionOf)
	}
	m.mu.Unlock()
	if !ok {
		return false
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	e.closed = true
	e.mu.Unlock()

	e.result <- Outcome{Reflected: reflected}
	return true
}

func (m *Manager) remove(id wave.Id) {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
}

// Len reports how many waves are currently being tracked.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
