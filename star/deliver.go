package star

import (
	"context"
	"fmt"

	"github.com/starlane-io/starlane/kind"
	"github.com/starlane-io/starlane/lane"
	"github.com/starlane-io/starlane/pipex"
	"github.com/starlane-io/starlane/point"
	"github.com/starlane-io/starlane/registry"
	"github.com/starlane-io/starlane/surface"
	"github.com/starlane-io/starlane/traversal"
	"github.com/starlane-io/starlane/wave"
)

// Deliver is the star's core entrypoint for a wave it must either run
// locally or forward toward the star that hosts its destination. It is
// used both for waves originated locally (by a driver/handler calling
// out) and for directed waves that arrived over a lane addressed here.
func (s *Star) Deliver(ctx context.Context, w *wave.Wave) error {
	if w.Id.Kind == wave.KindPong || w.Id.Kind == wave.KindEcho {
		return s.deliverReflected(ctx, w)
	}
	return s.deliverDirected(ctx, w)
}

func (s *Star) deliverDirected(ctx context.Context, w *wave.Wave) error {
	dest := w.To.Single.Point
	home, err := s.resolver.Resolve(ctx, dest)
	if err != nil {
		s.countFailed()
		return s.replyNotFound(ctx, w, err)
	}

	if home != s.Key {
		if err := s.forward(ctx, home, w); err != nil {
			s.countFailed()
			return err
		}
		s.countDelivered()
		return nil
	}
	if err := s.runLocal(ctx, w); err != nil {
		s.countFailed()
		return err
	}
	s.countDelivered()
	return nil
}

// deliverArrived is called from the lane reader path (arrival over a
// confirmed lane) rather than a local driver call: it differs from
// Deliver only in that forwarding a misrouted directed wave is expected
// (another star's path table may be stale) rather than exceptional.
func (s *Star) deliverArrived(ctx context.Context, w *wave.Wave, arrival lane.StarKey) {
	if err := s.Deliver(ctx, w); err != nil {
		s.Logger.Debug("star: delivery failed", "wave", w.Id.ShortString(), "arrival", arrival, "err", err)
	}
}

func (s *Star) forward(ctx context.Context, to lane.StarKey, w *wave.Wave) error {
	w.Hops++
	return s.SendFrame(ctx, to, lane.NewStarMessageFrame(w))
}

func (s *Star) replyNotFound(ctx context.Context, w *wave.Wave, cause error) error {
	refl, ok := w.Reflection()
	if !ok {
		return cause
	}
	core := wave.NewNotFoundCore(fmt.Sprintf("no resource record for %s: %v", w.To.Single.Point.String(), cause))
	return s.Reflect(ctx, refl, core)
}

// runLocal walks w through its destination particle's traversal plan via
// the Field layer, which owns the Shell -> Core hop and any reply
// internally (see DirectedFabricBound below).
func (s *Star) runLocal(ctx context.Context, w *wave.Wave) error {
	to := w.To.Single
	rec, err := s.Registry.Record(ctx, to.Point)
	if err != nil {
		return s.replyNotFound(ctx, w, err)
	}

	t := traversal.New(w, rec.Stub.Kind, kind.DirectionDirected, to, w.From)
	t.Logger = func(msg string) { s.Logger.Debug(msg) }
	return s.drive(ctx, t)
}

// drive walks t to completion, dispatching each layer to this Star as
// the traversal.Hook.
func (s *Star) drive(ctx context.Context, t *traversal.Traversal) error {
	wasLast := t.AtLast()
	for {
		outcome := traversal.TraverseNext(t, hookCtx{s, ctx})
		if outcome == traversal.Absorb {
			return nil
		}
		if outcome == traversal.Forward && wasLast {
			return nil
		}
		wasLast = t.AtLast()
	}
}

// hookCtx adapts Star to traversal.Hook for one drive call, carrying the
// ctx a Hook's fixed signature has no room for.
type hookCtx struct {
	s   *Star
	ctx context.Context
}

func (h hookCtx) DirectedFabricBound(t *traversal.Traversal) (traversal.Outcome, *wave.Wave) {
	if t.Layer() != surface.LayerField {
		return traversal.Forward, nil
	}
	return h.s.runField(h.ctx, t)
}

func (h hookCtx) DirectedCoreBound(t *traversal.Traversal) (traversal.Outcome, *wave.Wave) {
	// Every plan starts its directed walk at the Field layer, and
	// DirectedFabricBound absorbs there (runField), so drive does not
	// reach this hook; if it is reached, it ends the traversal.
	return traversal.Absorb, nil
}

func (h hookCtx) ReflectedFabricBound(t *traversal.Traversal) (traversal.Outcome, *wave.Wave) {
	if t.Layer() != surface.LayerGravity {
		return traversal.Forward, nil
	}
	h.s.onReflectedArrived(h.ctx, t.Wave)
	return traversal.Absorb, nil
}

func (h hookCtx) ReflectedCoreBound(t *traversal.Traversal) (traversal.Outcome, *wave.Wave) {
	return traversal.Forward, nil
}

// runField resolves the destination particle's driver/bind and runs the
// pipeline, implementing pipex.ShellTransmitter/GravityTransmitter
// against that one particle for the duration of the call.
func (s *Star) runField(ctx context.Context, t *traversal.Traversal) (traversal.Outcome, *wave.Wave) {
	to := t.To
	rec, err := s.Registry.Record(ctx, to.Point)
	if err != nil {
		_ = s.replyNotFound(ctx, t.Wave, err)
		return traversal.Absorb, nil
	}

	driver, ok := s.Drivers.For(rec.Stub.Kind)
	if !ok {
		_ = s.replyNotFound(ctx, t.Wave, fmt.Errorf("no driver for kind %s", rec.Stub.Kind))
		return traversal.Absorb, nil
	}

	bind, err := driver.Bind(ctx, to.Point)
	if err != nil {
		_ = s.replyNotFound(ctx, t.Wave, err)
		return traversal.Absorb, nil
	}

	shellTx := particleTransmitter{s: s, driver: driver, point: to.Point}
	if err := pipex.RunField(ctx, bind, t.Wave, shellTx, s); err != nil {
		s.Logger.Debug("star: field pipeline failed", "point", to.Point.String(), "err", err)
	}
	return traversal.Absorb, nil
}

// particleTransmitter implements pipex.ShellTransmitter against a single
// resolved particle: its Driver's Item sphere, either a local handler or
// a router that retargets the call.
type particleTransmitter struct {
	s      *Star
	driver registry.Driver
	point  point.Point
}

func (pt particleTransmitter) ToCore(ctx context.Context, core wave.DirectedCore) (wave.ReflectedCore, error) {
	item, err := pt.driver.Item(ctx, pt.point)
	if err != nil {
		return wave.ReflectedCore{}, err
	}
	if item.IsRouter() {
		next, err := item.Router.Route(ctx, pt.point)
		if err != nil {
			return wave.ReflectedCore{}, err
		}
		return pt.s.ToPoint(ctx, next, core)
	}
	if item.Handler == nil {
		return wave.ReflectedCore{}, fmt.Errorf("star: particle %s has neither handler nor router", pt.point.String())
	}
	return item.Handler.Handle(ctx, core)
}

// Reflect implements pipex.GravityTransmitter: send a reflected wave
// back toward its originator, forwarding across the mesh if it isn't
// hosted here.
func (s *Star) Reflect(ctx context.Context, refl wave.Reflection, core wave.ReflectedCore) error {
	w := refl.Make(refl.To, core)
	s.countReflected()
	return s.Deliver(ctx, w)
}

// ToPoint implements pipex.GravityTransmitter: route a directed core to
// a different point than the one the pipeline started at (router
// particles), by resolving that point's host and running it there. Only
// points hosted on this star are run; a point hosted on another star
// returns an error.
func (s *Star) ToPoint(ctx context.Context, to point.Point, core wave.DirectedCore) (wave.ReflectedCore, error) {
	home, err := s.resolver.Resolve(ctx, to)
	if err != nil {
		return wave.ReflectedCore{}, err
	}
	if home != s.Key {
		return wave.ReflectedCore{}, fmt.Errorf("star: %s is hosted on %s, cross-star ToPoint routing not supported from Shell layer", to.String(), home)
	}

	rec, err := s.Registry.Record(ctx, to)
	if err != nil {
		return wave.ReflectedCore{}, err
	}
	driver, ok := s.Drivers.For(rec.Stub.Kind)
	if !ok {
		return wave.ReflectedCore{}, fmt.Errorf("no driver for kind %s", rec.Stub.Kind)
	}
	pt := particleTransmitter{s: s, driver: driver, point: to}
	return pt.ToCore(ctx, core)
}

// onReflectedArrived is the Gravity-layer sink for a reflected wave
// that has finished traversing back out: hand it to the exchanger (for
// a waiter registered by Send) and the tracker (for
// delivery-insurance retries), in that order. Either, both, or neither
// may have an entry for it; all three are valid.
func (s *Star) onReflectedArrived(ctx context.Context, w *wave.Wave) {
	s.Exchange.Deliver(w)
	s.Trackers.Deregister(w)
}

func (s *Star) deliverReflected(ctx context.Context, w *wave.Wave) error {
	to := w.To.Single.Point
	home, err := s.resolver.Resolve(ctx, to)
	if err != nil || home == s.Key {
		// Either hosted here, or unresolvable (accept it locally rather
		// than dropping a reply in flight: the exchanger/tracker lookup
		// in onReflectedArrived is keyed by wave id, not location). Walk
		// it back out through Shell/Field the same way an arrived
		// directed wave walks in, so any fabric-layer reflected hook
		// (watchers, in a future driver) still sees it.
		k := kind.Kind{}
		if rec, recErr := s.Registry.Record(ctx, to); recErr == nil {
			k = rec.Stub.Kind
		}
		t := traversal.New(w, k, kind.DirectionReflected, w.To.Single, w.From)
		t.Logger = func(msg string) { s.Logger.Debug(msg) }
		return s.drive(ctx, t)
	}
	w.Hops++
	return s.SendFrame(ctx, home, lane.NewStarMessageFrame(w))
}

// Resend implements tracker.Resender: re-deliver w, which for a directed
// wave still awaiting its reflection means running Deliver again exactly
// as if it were freshly originated.
func (s *Star) Resend(w *wave.Wave) error {
	return s.Deliver(context.Background(), w)
}
