package star

import (
	"context"
	"fmt"

	"github.com/starlane-io/starlane/exchanger"
	"github.com/starlane-io/starlane/lane"
	"github.com/starlane-io/starlane/point"
	"github.com/starlane-io/starlane/wave"
)

// Run is the star loop: it pulls one Command at a time off the command
// channel and dispatches it, serializing frame arrival processing
// through this single goroutine. Everything else a Star exposes (Send,
// SendFrame, AddLane, ResourceRecord, Status) is a direct method call;
// see star.go's doc comment on why that's safe.
func (s *Star) Run(ctx context.Context) {
	s.setStatus(StatusInit)
	s.setStatus(StatusReady)

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return
		case cmd := <-s.cmds:
			if cmd.Kind == CmdShutdown {
				s.shutdown()
				cmd.reply(Result{})
				return
			}
			s.dispatch(ctx, cmd)
		}
	}
}

func (s *Star) dispatch(ctx context.Context, cmd Command) {
	switch cmd.Kind {
	case CmdInit:
		cmd.reply(Result{})
	case CmdFrameReceived:
		s.onFrameReceived(ctx, cmd)
		cmd.reply(Result{})
	default:
		cmd.reply(Result{Err: fmt.Errorf("star: unknown command kind %s", cmd.Kind)})
	}
}

func (s *Star) shutdown() {
	close(s.done)
	for _, l := range s.Lanes.Lanes() {
		_ = l.Close()
	}
	s.Trackers.Close()
	s.setStatus(StatusFatal)
}

// Stop requests an orderly shutdown of the star loop and waits for it
// to complete: every confirmed lane is closed and the status is set to
// Fatal, the terminal state a star that is shutting down (rather than
// crashing) still reports.
func (s *Star) Stop() {
	s.call(Command{Kind: CmdShutdown})
}

// ResourceRecord resolves the star currently hosting p.
func (s *Star) ResourceRecord(ctx context.Context, p point.Point) (lane.StarKey, error) {
	return s.resolver.Resolve(ctx, p)
}

// Send originates a directed wave from this star: it builds w from
// proto, registers it with the exchanger (if it expects a reflection per
// the contractual bounce-back table) and the tracker (delivery
// insurance), then delivers it. The returned channel receives exactly
// one Aggregate if proto's kind/bounce-backs expect a reply, nil
// otherwise.
func (s *Star) Send(ctx context.Context, proto *wave.DirectedProto) (<-chan exchanger.Aggregate, error) {
	w, err := proto.Build()
	if err != nil {
		return nil, err
	}

	aggCh, _ := s.Exchange.Register(w)

	needsTrack := w.Id.Kind == wave.KindPing || (w.Id.Kind == wave.KindRipple && w.BounceBacks.HasBounce())
	if needsTrack {
		s.Trackers.Track(s, w)
	}

	if err := s.Deliver(ctx, w); err != nil {
		return nil, err
	}
	return aggCh, nil
}
