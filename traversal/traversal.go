// Package traversal implements the layer-by-layer walk a wave takes
// through a particle's TraversalPlan.
package traversal

import (
	"github.com/starlane-io/starlane/kind"
	"github.com/starlane-io/starlane/surface"
	"github.com/starlane-io/starlane/wave"
)

// Traversal wraps a wave in flight with its current position in its
// destination's TraversalPlan, plus the original to/from surfaces.
type Traversal struct {
	Wave      *wave.Wave
	Plan      kind.TraversalPlan
	Direction kind.Direction
	index     int
	To        surface.Surface
	From      surface.Surface

	// Logger, when non-nil, receives a trace line per layer hop when
	// Wave.Track is set.
	Logger func(msg string)
}

// New starts a Traversal for w at the first layer of its direction's
// ordered list.
func New(w *wave.Wave, k kind.Kind, direction kind.Direction, to, from surface.Surface) *Traversal {
	return &Traversal{
		Wave:      w,
		Plan:      kind.PlanFor(k),
		Direction: direction,
		To:        to,
		From:      from,
	}
}

// Layer returns the layer this traversal is currently positioned at.
func (t *Traversal) Layer() surface.Layer {
	return t.Plan.Layers(t.Direction)[t.index]
}

// AtLast reports whether the traversal is at the final layer of its plan.
func (t *Traversal) AtLast() bool {
	return t.index == len(t.Plan.Layers(t.Direction))-1
}

// Outcome is what a layer hook returns after handling a wave.
type Outcome uint8

const (
	// Forward advances the traversal to the next layer in the plan.
	Forward Outcome = iota
	// Absorb stops the traversal here; no further layer sees the wave.
	Absorb
	// Replace substitutes a different wave (e.g. wrapping as a hop):
	// TraverseNext swaps the replacement into the traversal and stays at
	// the current layer, so the next call dispatches it there.
	Replace
)

// Hook is the per-layer implementation surface. Only the methods
// relevant to a layer's role need to be non-trivial; the rest should
// return Forward immediately.
type Hook interface {
	DirectedFabricBound(t *Traversal) (Outcome, *wave.Wave)
	DirectedCoreBound(t *Traversal) (Outcome, *wave.Wave)
	ReflectedFabricBound(t *Traversal) (Outcome, *wave.Wave)
	ReflectedCoreBound(t *Traversal) (Outcome, *wave.Wave)
}

// NoopHook is embedded by layer implementations that only care about one
// or two of the four hooks, so they don't have to stub the rest.
type NoopHook struct{}

func (NoopHook) DirectedFabricBound(t *Traversal) (Outcome, *wave.Wave)  { return Forward, nil }
func (NoopHook) DirectedCoreBound(t *Traversal) (Outcome, *wave.Wave)    { return Forward, nil }
func (NoopHook) ReflectedFabricBound(t *Traversal) (Outcome, *wave.Wave) { return Forward, nil }
func (NoopHook) ReflectedCoreBound(t *Traversal) (Outcome, *wave.Wave)   { return Forward, nil }

// Dispatch invokes the hook for the wave's direction, calling the
// core-bound hook at the Core layer and the fabric-bound hook at every
// other layer of the plan. "Fabric" here means the
// field/shell hops on the way in (or out, reflected), "core" the
// particle's own implementation.
func Dispatch(t *Traversal, hook Hook) (Outcome, *wave.Wave) {
	if t.Wave.Track && t.Logger != nil {
		t.Logger("traversal " + t.Wave.Id.ShortString() + " at " + t.Layer().String())
	}

	directed := t.Direction == kind.DirectionDirected
	atCore := t.Layer() == surface.LayerCore

	switch {
	case directed && atCore:
		return hook.DirectedCoreBound(t)
	case directed && !atCore:
		return hook.DirectedFabricBound(t)
	case !directed && atCore:
		return hook.ReflectedCoreBound(t)
	default:
		return hook.ReflectedFabricBound(t)
	}
}

// TraverseNext advances the traversal by one layer and dispatches to
// hook, returning the Outcome hook produced. Exactly one layer is active
// per call: if hook returns Forward and this was not the last layer, the
// traversal's index is advanced so the next TraverseNext call dispatches
// to the following layer.
func TraverseNext(t *Traversal, hook Hook) Outcome {
	outcome, replacement := Dispatch(t, hook)
	switch outcome {
	case Forward:
		if !t.AtLast() {
			t.index++
		}
	case Replace:
		if replacement != nil {
			t.Wave = replacement
		}
	case Absorb:
		// traversal ends; caller should not call TraverseNext again.
	}
	return outcome
}
