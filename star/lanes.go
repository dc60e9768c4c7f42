package star

import (
	"context"

	"github.com/starlane-io/starlane/lane"
	"github.com/starlane-io/starlane/windfinder"
)

// AddLane registers a confirmed lane to remote over transport and starts
// its reader goroutine. Use this for statically configured peers (no
// gate handshake needed because the remote identity is already known);
// for a freshly accepted transport whose remote star isn't known yet,
// use AddProtoLane and confirm it once the gate handshake completes.
//
// This and the other lane/hold/windfinder operations below call
// straight into their collaborator rather than round-tripping through
// the command channel: lane.Registry, hold.Hold and windfinder.Manager
// each guard their own state with a mutex, so they're safe to call from
// any goroutine, including reentrantly from inside the star loop itself
// (a pipeline handler that calls Send while being driven by Run would
// deadlock against a synchronous command round trip). Only frame arrival
// and shutdown genuinely need the loop's serialization; see command.go.
func (s *Star) AddLane(remote lane.StarKey, transport lane.Transport) *lane.Lane {
	l := s.Lanes.Add(remote, transport)
	go s.readLane(remote, l)
	return l
}

// AddProtoLane registers a just-accepted, not-yet-identified transport
// and starts a reader goroutine for it. Frames read off it before the
// gate handshake names its remote star are delivered tagged with the
// zero StarKey and the originating *lane.ProtoLane.
func (s *Star) AddProtoLane(transport lane.Transport) *lane.ProtoLane {
	p := &lane.ProtoLane{Transport: transport}
	s.Lanes.AddProto(p)
	go s.readProtoLane(p)
	return p
}

// ConfirmProtoLane promotes p (previously added via AddProtoLane) once
// its remote star identity is known, e.g. from a completed gate Knock.
func (s *Star) ConfirmProtoLane(p *lane.ProtoLane, remote lane.StarKey) (*lane.Lane, error) {
	l, err := s.Lanes.ConfirmProto(p, remote)
	if err != nil {
		return nil, err
	}
	go s.readLane(remote, l)
	s.releaseHeld(remote)
	return l, nil
}

// readLane is the per-lane reader goroutine: it blocks on
// Transport.Recv and posts each frame back to the star loop as a
// command, so frame handling (including windfinder transaction
// bookkeeping and hold drain decisions, both of which span more than
// one collaborator call) is serialized through a single goroutine.
func (s *Star) readLane(remote lane.StarKey, l *lane.Lane) {
	ctx := context.Background()
	for {
		f, err := l.Transport.Recv(ctx)
		if err != nil {
			s.Enqueue(Command{Kind: CmdFrameReceived, ArrivalLane: remote, Frame: lane.NewCloseFrame()})
			return
		}
		s.Enqueue(Command{Kind: CmdFrameReceived, ArrivalLane: remote, Frame: f})
	}
}

func (s *Star) readProtoLane(p *lane.ProtoLane) {
	ctx := context.Background()
	for {
		f, err := p.Transport.Recv(ctx)
		if err != nil {
			return
		}
		s.Enqueue(Command{Kind: CmdFrameReceived, ArrivalProto: p, Frame: f})
	}
}

func (s *Star) onFrameReceived(ctx context.Context, cmd Command) {
	f := cmd.Frame
	arrival := cmd.ArrivalLane

	switch f.Kind {
	case lane.FrameClose:
		if arrival != "" {
			s.onLaneClosed(arrival)
		}
	case lane.FrameStarMessage:
		if f.Wave != nil {
			s.deliverArrived(ctx, f.Wave, arrival)
		}
	case lane.FrameStarWind:
		s.handleStarWind(ctx, arrival, f)
	case lane.FrameProto:
		// Proto frames (Knock/Greet) are handled by the gate package at
		// handshake time, above the star loop; by the time a frame
		// reaches here over a confirmed lane there's nothing to do.
	case lane.FrameWatch, lane.FrameEntityEvent:
		// Watch/entity-event hosting lives with the driver
		// collaborators, not this core.
	}
}

func (s *Star) onLaneClosed(remote lane.StarKey) {
	s.Lanes.Remove(remote)
	s.Winds.OnLaneClosed(remote)
	s.Logger.Debug("star: lane closed", "remote", remote)
}

// SendFrame routes f to the star "to": directly if a confirmed lane
// exists, via the best-known multi-hop lane otherwise, or into the Frame
// Hold (firing a windfinder search on the first frame queued) if no
// lane has any path knowledge of "to" at all.
func (s *Star) SendFrame(ctx context.Context, to lane.StarKey, f lane.Frame) error {
	if l, ok := s.Lanes.Get(to); ok {
		return l.Send(ctx, f)
	}
	if best, _, ok := s.Lanes.BestFor(to); ok {
		return best.Send(ctx, f)
	}

	first := s.Hold.Push(to, f)
	if first {
		go s.searchAndRelease(to)
	}
	return nil
}

// searchAndRelease runs a windfinder search for "to" and, on a hit,
// drains and forwards the frames queued for it in the Frame Hold.
func (s *Star) searchAndRelease(to lane.StarKey) {
	ctx := context.Background()
	hits := <-s.Winds.Search(ctx, s, windfinder.ExactPattern(to), s.Config.MaxHops)
	if len(hits) == 0 {
		return
	}
	s.releaseHeld(to)
}

func (s *Star) releaseHeld(to lane.StarKey) {
	held := s.Hold.Drain(to)
	ctx := context.Background()
	for _, f := range held {
		_ = s.SendFrame(ctx, to, f)
	}
}
