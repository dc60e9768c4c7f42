package wave

import (
	"testing"

	"github.com/starlane-io/starlane/point"
	"github.com/starlane-io/starlane/surface"
	"github.com/stretchr/testify/require"
)

func mustSurface(t *testing.T, s string) surface.Surface {
	t.Helper()
	p, err := point.Parse(s)
	require.NoError(t, err)
	return surface.Surface{Point: p, Layer: surface.LayerCore}
}

func TestDirectedProtoRequiresFromToMethod(t *testing.T) {
	_, err := NewPing().Build()
	require.ErrorIs(t, err, ErrProtoMissingFrom)

	p := NewPing().WithFrom(mustSurface(t, "s:a"))
	_, err = p.Build()
	require.ErrorIs(t, err, ErrProtoMissingTo)

	p = p.WithTo(surface.Of(mustSurface(t, "s:b")))
	_, err = p.Build()
	require.ErrorIs(t, err, ErrProtoMissingMethod)

	p = p.WithMethod(MethodExt("Echo"))
	w, err := p.Build()
	require.NoError(t, err)
	require.Equal(t, KindPing, w.Id.Kind)
}

func TestRippleRequiresMultiRecipients(t *testing.T) {
	p := NewRipple().
		WithFrom(mustSurface(t, "s:a")).
		WithMethod(MethodExt("Broadcast")).
		WithTo(surface.Of(mustSurface(t, "s:b")))
	_, err := p.Build()
	require.ErrorIs(t, err, ErrProtoMissingTo)

	p = p.WithTo(surface.OfMany(mustSurface(t, "s:b"), mustSurface(t, "s:c")))
	w, err := p.Build()
	require.NoError(t, err)
	require.Equal(t, KindRipple, w.Id.Kind)
}

func TestPingReflectionProducesPong(t *testing.T) {
	from := mustSurface(t, "s:a")
	to := mustSurface(t, "s:b")
	ping, err := NewPing().WithFrom(from).WithTo(surface.Of(to)).WithMethod(MethodExt("Echo")).
		WithBody(SubstanceOfText("hi")).Build()
	require.NoError(t, err)

	refl, ok := ping.Reflection()
	require.True(t, ok)
	require.Equal(t, KindPong, refl.Kind)
	require.Equal(t, from, refl.To)

	pong := refl.Make(to, NewOkBodyCore(SubstanceOfText("hi")))
	require.Equal(t, KindPong, pong.Id.Kind)
	require.Equal(t, ping.Id, pong.ReflectionOf)
	require.True(t, pong.ReflectedBody.IsOk())
}

func TestSignalHasNoReflection(t *testing.T) {
	from := mustSurface(t, "s:a")
	to := mustSurface(t, "s:b")
	sig, err := NewSignal().WithFrom(from).WithTo(surface.Of(to)).WithMethod(MethodHyp(HypHop)).Build()
	require.NoError(t, err)

	_, ok := sig.Reflection()
	require.False(t, ok)
}

func TestRippleWithNoneBounceHasNoReflection(t *testing.T) {
	from := mustSurface(t, "s:a")
	ripple, err := NewRipple().WithFrom(from).
		WithTo(surface.OfMany(mustSurface(t, "s:b"), mustSurface(t, "s:c"))).
		WithMethod(MethodExt("Broadcast")).
		WithBounceBacks(BounceBacksOfNone()).Build()
	require.NoError(t, err)

	_, ok := ripple.Reflection()
	require.False(t, ok)
}

func TestRippleWithCountBounceReflectsToEcho(t *testing.T) {
	from := mustSurface(t, "s:a")
	ripple, err := NewRipple().WithFrom(from).
		WithTo(surface.OfMany(mustSurface(t, "s:b"), mustSurface(t, "s:c"))).
		WithMethod(MethodExt("Broadcast")).
		WithBounceBacks(BounceBacksOfCount(2)).Build()
	require.NoError(t, err)

	refl, ok := ripple.Reflection()
	require.True(t, ok)
	require.Equal(t, KindEcho, refl.Kind)
}

func TestViaOverridesFromOnReflection(t *testing.T) {
	from := mustSurface(t, "s:a")
	via := mustSurface(t, "s:proxy")
	to := mustSurface(t, "s:b")
	ping, err := NewPing().WithFrom(from).WithVia(via).WithTo(surface.Of(to)).
		WithMethod(MethodExt("Echo")).Build()
	require.NoError(t, err)

	require.Equal(t, via, ping.ReflectSurface())
	refl, ok := ping.Reflection()
	require.True(t, ok)
	require.Equal(t, via, refl.To)
}

func TestRetryAndWaitTables(t *testing.T) {
	require.Equal(t, 0, RetryCount(RetriesNone))
	require.Equal(t, 2, RetryCount(RetriesMin))
	require.Equal(t, 5, RetryCount(RetriesMedium))
	require.Equal(t, 10, RetryCount(RetriesMax))

	require.Equal(t, WaitSeconds(WaitLow).Seconds(), 1.0)
	require.Equal(t, WaitSeconds(WaitMed).Seconds(), 5.0)
	require.Equal(t, WaitSeconds(WaitHigh).Seconds(), 30.0)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	from := mustSurface(t, "s:a")
	to := mustSurface(t, "s:b")
	w, err := NewPing().WithFrom(from).WithTo(surface.Of(to)).
		WithMethod(MethodExt("Echo")).WithBody(SubstanceOfText("hi")).Build()
	require.NoError(t, err)

	b, err := Encode(w)
	require.NoError(t, err)

	decoded, err := Decode(b)
	require.NoError(t, err)
	require.Equal(t, w.Id, decoded.Id)
	require.Equal(t, w.DirectedBody.Body.Text, decoded.DirectedBody.Body.Text)
}
