// Package machine aggregates a constellation of stars into one
// machine-level lifecycle status and owns orderly shutdown across all of
// them. It is a thin layer over star.Star's own watch channel: nothing
// here mutates a star directly.
package machine

import "github.com/starlane-io/starlane/star"

// Status is the machine-wide lifecycle state, rolled up from every
// constituent star's own star.Status.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusPending
	StatusInit
	StatusReady
	StatusPanic
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "Unknown"
	case StatusPending:
		return "Pending"
	case StatusInit:
		return "Init"
	case StatusReady:
		return "Ready"
	case StatusPanic:
		return "Panic"
	case StatusFatal:
		return "Fatal"
	default:
		return "?status?"
	}
}

// Aggregate folds a set of per-star statuses into one MachineStatus: Fatal
// dominates (any star fatally failed), then Panic, then Init (still
// booting), and only Ready when every star is Ready. An empty set (no
// stars yet registered) reports Pending.
func Aggregate(statuses []star.Status) Status {
	if len(statuses) == 0 {
		return StatusPending
	}

	anyFatal, anyPanic, anyInit, anyPending, allReady := false, false, false, false, true
	for _, s := range statuses {
		switch s {
		case star.StatusFatal:
			anyFatal = true
		case star.StatusPanic:
			anyPanic = true
		case star.StatusInit:
			anyInit = true
		case star.StatusPending, star.StatusUnknown:
			anyPending = true
		}
		if s != star.StatusReady {
			allReady = false
		}
	}

	switch {
	case anyFatal:
		return StatusFatal
	case anyPanic:
		return StatusPanic
	case allReady:
		return StatusReady
	case anyInit:
		return StatusInit
	case anyPending:
		return StatusPending
	default:
		return StatusPending
	}
}
