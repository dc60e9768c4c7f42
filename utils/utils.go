// Package utils holds the small generic helpers shared across the mesh
// packages: atomic counters here, plus the linked and set containers in
// the subpackages.
package utils

import "sync/atomic"

// AtomicInt is a convenience wrapper over atomic.Int64 with a
// constructor, used for the always-on delivery counters a star's health
// check reads.
type AtomicInt struct {
	value atomic.Int64
}

// NewAtomicInt creates a new atomic int
func NewAtomicInt(value int64) *AtomicInt {
	a := &AtomicInt{}
	a.Set(value)
	return a
}

// Get returns the current value
func (a *AtomicInt) Get() int64 {
	return a.value.Load()
}

// Set sets the value
func (a *AtomicInt) Set(value int64) {
	a.value.Store(value)
}

// Add atomically adds delta to the value
func (a *AtomicInt) Add(delta int64) int64 {
	return a.value.Add(delta)
}

// Inc atomically increments the value
func (a *AtomicInt) Inc() int64 {
	return a.Add(1)
}

// Dec atomically decrements the value
func (a *AtomicInt) Dec() int64 {
	return a.Add(-1)
}
