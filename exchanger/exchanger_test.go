package exchanger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/starlane-io/starlane/point"
	"github.com/starlane-io/starlane/surface"
	"github.com/starlane-io/starlane/wave"
)

func mustSurface(t *testing.T, s string) surface.Surface {
	t.Helper()
	p, err := point.Parse(s)
	require.NoError(t, err)
	return surface.Surface{Point: p, Layer: surface.LayerCore}
}

func fastWait(h wave.Handling) wave.Handling {
	h.Wait = wave.WaitLow
	return h
}

func TestPingExpectsOnePong(t *testing.T) {
	from := mustSurface(t, "s:a")
	to := mustSurface(t, "s:b")

	ping, err := wave.NewPing().WithFrom(from).WithTo(surface.Of(to)).
		WithMethod(wave.MethodHttp(wave.HttpGet)).WithHandling(fastWait(wave.DefaultHandling())).Build()
	require.NoError(t, err)

	table := NewTable()
	result, ok := table.Register(ping)
	require.True(t, ok)
	require.Equal(t, 1, table.Len())

	pong, err := wave.NewPong().WithFrom(to).WithTo(surface.Of(from)).
		WithReflectionOf(ping.Id).WithStatus(200).Build()
	require.NoError(t, err)

	require.True(t, table.Deliver(pong))

	select {
	case agg := <-result:
		require.False(t, agg.TimedOut)
		require.Len(t, agg.Reflected, 1)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for aggregate")
	}
	require.Equal(t, 0, table.Len())
}

func TestSignalHasNoExchangeEntry(t *testing.T) {
	from := mustSurface(t, "s:a")
	to := mustSurface(t, "s:b")
	sig, err := wave.NewSignal().WithFrom(from).WithTo(surface.Of(to)).
		WithMethod(wave.MethodHttp(wave.HttpGet)).Build()
	require.NoError(t, err)

	table := NewTable()
	_, ok := table.Register(sig)
	require.False(t, ok)
	require.Equal(t, 0, table.Len())
}

func TestRippleWithNoneHasNoExchangeEntry(t *testing.T) {
	from := mustSurface(t, "s:a")
	to := mustSurface(t, "s:b")
	to2 := mustSurface(t, "s:c")
	rip, err := wave.NewRipple().WithFrom(from).WithTo(surface.OfMany(to, to2)).
		WithMethod(wave.MethodHttp(wave.HttpGet)).Build()
	require.NoError(t, err)

	table := NewTable()
	_, ok := table.Register(rip)
	require.False(t, ok)
}

func TestRippleWithCountCollectsNEchoesThenResolves(t *testing.T) {
	from := mustSurface(t, "s:a")
	to1 := mustSurface(t, "s:b")
	to2 := mustSurface(t, "s:c")

	rip, err := wave.NewRipple().WithFrom(from).WithTo(surface.OfMany(to1, to2)).
		WithMethod(wave.MethodHttp(wave.HttpGet)).
		WithHandling(fastWait(wave.DefaultHandling())).
		WithBounceBacks(wave.BounceBacksOfCount(2)).Build()
	require.NoError(t, err)

	table := NewTable()
	result, ok := table.Register(rip)
	require.True(t, ok)

	echo1, err := wave.NewEcho().WithFrom(to1).WithTo(surface.Of(from)).
		WithReflectionOf(rip.Id).WithStatus(200).Build()
	require.NoError(t, err)
	echo2, err := wave.NewEcho().WithFrom(to2).WithTo(surface.Of(from)).
		WithReflectionOf(rip.Id).WithStatus(200).Build()
	require.NoError(t, err)

	require.True(t, table.Deliver(echo1))
	select {
	case <-result:
		t.Fatal("resolved early after only one of two echoes")
	case <-time.After(20 * time.Millisecond):
	}

	require.True(t, table.Deliver(echo2))
	select {
	case agg := <-result:
		require.False(t, agg.TimedOut)
		require.Len(t, agg.Reflected, 2)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for aggregate")
	}
}

func TestRippleWithTimerCollectsUntilDeadline(t *testing.T) {
	from := mustSurface(t, "s:a")
	to1 := mustSurface(t, "s:b")

	rip, err := wave.NewRipple().WithFrom(from).WithTo(surface.OfMany(to1, mustSurface(t, "s:c"))).
		WithMethod(wave.MethodHttp(wave.HttpGet)).
		WithBounceBacks(wave.BounceBacksOfTimer(wave.WaitLow)).Build()
	require.NoError(t, err)

	table := NewTable()
	result, ok := table.Register(rip)
	require.True(t, ok)

	echo1, err := wave.NewEcho().WithFrom(to1).WithTo(surface.Of(from)).
		WithReflectionOf(rip.Id).WithStatus(200).Build()
	require.NoError(t, err)
	require.True(t, table.Deliver(echo1))

	select {
	case agg := <-result:
		// The deadline is a Timer waiter's normal resolution, not a
		// timeout failure.
		require.False(t, agg.TimedOut)
		require.Len(t, agg.Reflected, 1)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for aggregate")
	}
}

func TestDeliverWithNoWaiterReturnsFalse(t *testing.T) {
	table := NewTable()
	from := mustSurface(t, "s:a")
	to := mustSurface(t, "s:b")
	pong, err := wave.NewPong().WithFrom(to).WithTo(surface.Of(from)).
		WithReflectionOf(wave.NewId(wave.KindPing)).WithStatus(200).Build()
	require.NoError(t, err)
	require.False(t, table.Deliver(pong))
}
