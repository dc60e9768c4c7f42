package gate

import (
	"errors"

	"github.com/starlane-io/starlane/surface"
	"github.com/starlane-io/starlane/wave"
)

// ErrNotHop and ErrNotTransport are returned by Unwrap when the given
// wave isn't the envelope kind it claims to be.
var (
	ErrNotHop       = errors.New("gate: wave is not a Hop signal")
	ErrNotTransport = errors.New("gate: wave is not a Transport signal")
)

// WrapHop encapsulates inner as a Hyp<Hop> Signal addressed to nextHop.
// Each star on the route unwraps it, re-inspects the payload, and either
// forwards again (re-wrapping for the following hop) or delivers it.
func WrapHop(inner *wave.Wave, from, nextHop surface.Surface) (*wave.Wave, error) {
	proto := wave.NewSignal().
		WithFrom(from).
		WithTo(surface.Of(nextHop)).
		WithMethod(wave.MethodHyp(wave.HypHop)).
		WithBody(wave.SubstanceOfWave(inner)).
		WithHandling(inner.Handling)
	return proto.Build()
}

// UnwrapHop extracts the inner wave from a Hyp<Hop> Signal. It is the
// inverse of WrapHop: UnwrapHop(WrapHop(w)) == w for any well-formed w.
func UnwrapHop(w *wave.Wave) (*wave.Wave, error) {
	if w.Id.Kind != wave.KindSignal || !w.DirectedBody.Method.IsHyp(wave.HypHop) {
		return nil, ErrNotHop
	}
	if w.DirectedBody.Body.Kind != wave.SubstanceWave || w.DirectedBody.Body.Wave == nil {
		return nil, ErrNotHop
	}
	return w.DirectedBody.Body.Wave, nil
}

// WrapTransport encapsulates inner as a Hyp<Transport> Signal carrying
// it end-to-end from origin to its final destination. Transports are
// typically tunneled inside one or more Hops as they cross intermediate
// lanes; WrapTransport only handles the outer envelope, not the tunnel.
func WrapTransport(inner *wave.Wave, from, destination surface.Surface) (*wave.Wave, error) {
	proto := wave.NewSignal().
		WithFrom(from).
		WithTo(surface.Of(destination)).
		WithMethod(wave.MethodHyp(wave.HypTransport)).
		WithBody(wave.SubstanceOfWave(inner)).
		WithHandling(inner.Handling)
	return proto.Build()
}

// UnwrapTransport extracts the inner wave from a Hyp<Transport> Signal.
func UnwrapTransport(w *wave.Wave) (*wave.Wave, error) {
	if w.Id.Kind != wave.KindSignal || !w.DirectedBody.Method.IsHyp(wave.HypTransport) {
		return nil, ErrNotTransport
	}
	if w.DirectedBody.Body.Kind != wave.SubstanceWave || w.DirectedBody.Body.Wave == nil {
		return nil, ErrNotTransport
	}
	return w.DirectedBody.Body.Wave, nil
}
