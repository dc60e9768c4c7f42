package traversal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starlane-io/starlane/kind"
	"github.com/starlane-io/starlane/point"
	"github.com/starlane-io/starlane/surface"
	"github.com/starlane-io/starlane/wave"
)

type recordingHook struct {
	NoopHook
	layers []surface.Layer
}

func (h *recordingHook) DirectedFabricBound(t *Traversal) (Outcome, *wave.Wave) {
	h.layers = append(h.layers, t.Layer())
	return Forward, nil
}

func (h *recordingHook) DirectedCoreBound(t *Traversal) (Outcome, *wave.Wave) {
	h.layers = append(h.layers, t.Layer())
	return Absorb, nil
}

func mustSurface(t *testing.T, s string) surface.Surface {
	t.Helper()
	p, err := point.Parse(s)
	require.NoError(t, err)
	return surface.Surface{Point: p, Layer: surface.LayerCore}
}

func TestDirectedTraversalWalksFieldShellCore(t *testing.T) {
	w, err := wave.NewPing().WithFrom(mustSurface(t, "s:a")).WithTo(surface.Of(mustSurface(t, "s:b"))).
		WithMethod(wave.MethodExt("Echo")).Build()
	require.NoError(t, err)

	tr := New(w, kind.Kind{Base: kind.BaseApp}, kind.DirectionDirected, mustSurface(t, "s:b"), mustSurface(t, "s:a"))
	hook := &recordingHook{}

	require.Equal(t, Forward, TraverseNext(tr, hook))
	require.Equal(t, Forward, TraverseNext(tr, hook))
	require.Equal(t, Absorb, TraverseNext(tr, hook))

	require.Equal(t, []surface.Layer{surface.LayerField, surface.LayerShell, surface.LayerCore}, hook.layers)
}

type reflectedRecordingHook struct {
	NoopHook
	layers []surface.Layer
}

func (h *reflectedRecordingHook) ReflectedCoreBound(t *Traversal) (Outcome, *wave.Wave) {
	h.layers = append(h.layers, t.Layer())
	return Forward, nil
}

func (h *reflectedRecordingHook) ReflectedFabricBound(t *Traversal) (Outcome, *wave.Wave) {
	h.layers = append(h.layers, t.Layer())
	if t.AtLast() {
		return Absorb, nil
	}
	return Forward, nil
}

func TestReflectedTraversalWalksCoreShellFieldGravity(t *testing.T) {
	w, err := wave.NewPong().WithFrom(mustSurface(t, "s:b")).WithTo(surface.Of(mustSurface(t, "s:a"))).
		WithReflectionOf(wave.NewId(wave.KindPing)).WithStatus(200).Build()
	require.NoError(t, err)

	tr := New(w, kind.Kind{Base: kind.BaseApp}, kind.DirectionReflected, mustSurface(t, "s:a"), mustSurface(t, "s:b"))
	hook := &reflectedRecordingHook{}

	for i := 0; i < 4; i++ {
		outcome := TraverseNext(tr, hook)
		if outcome == Absorb {
			break
		}
	}

	require.Equal(t, []surface.Layer{surface.LayerCore, surface.LayerShell, surface.LayerField, surface.LayerGravity}, hook.layers)
}
