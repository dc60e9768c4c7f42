package gate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starlane-io/starlane/point"
	"github.com/starlane-io/starlane/surface"
	"github.com/starlane-io/starlane/wave"
)

func mustPoint(t *testing.T, s string) point.Point {
	t.Helper()
	p, err := point.Parse(s)
	require.NoError(t, err)
	return p
}

func TestHopIsomorphism(t *testing.T) {
	a := surface.Surface{Point: mustPoint(t, "s1:a"), Layer: surface.LayerCore}
	b := surface.Surface{Point: mustPoint(t, "s2:b"), Layer: surface.LayerCore}
	nextHop := surface.Surface{Point: mustPoint(t, "s1:relay"), Layer: surface.LayerGravity}

	inner, err := wave.NewPing().
		WithFrom(a).
		WithTo(surface.Of(b)).
		WithMethod(wave.MethodExt("Echo")).
		WithBody(wave.SubstanceOfText("hi")).
		Build()
	require.NoError(t, err)

	wrapped, err := WrapHop(inner, a, nextHop)
	require.NoError(t, err)
	require.True(t, wrapped.DirectedBody.Method.IsHyp(wave.HypHop))

	unwrapped, err := UnwrapHop(wrapped)
	require.NoError(t, err)
	require.Equal(t, inner, unwrapped)
}

func TestUnwrapHopRejectsNonHop(t *testing.T) {
	a := surface.Surface{Point: mustPoint(t, "s1:a"), Layer: surface.LayerCore}
	b := surface.Surface{Point: mustPoint(t, "s2:b"), Layer: surface.LayerCore}
	w, err := wave.NewSignal().WithFrom(a).WithTo(surface.Of(b)).WithMethod(wave.MethodExt("Echo")).Build()
	require.NoError(t, err)

	_, err = UnwrapHop(w)
	require.ErrorIs(t, err, ErrNotHop)
}

func TestTransportIsomorphism(t *testing.T) {
	a := surface.Surface{Point: mustPoint(t, "s1:a"), Layer: surface.LayerCore}
	dest := surface.Surface{Point: mustPoint(t, "s3:c"), Layer: surface.LayerCore}

	inner, err := wave.NewSignal().WithFrom(a).WithTo(surface.Of(dest)).WithMethod(wave.MethodExt("Poke")).Build()
	require.NoError(t, err)

	wrapped, err := WrapTransport(inner, a, dest)
	require.NoError(t, err)

	unwrapped, err := UnwrapTransport(wrapped)
	require.NoError(t, err)
	require.Equal(t, inner, unwrapped)
}
