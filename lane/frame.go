// Package lane implements the point-to-point links between stars: frame
// encapsulation, the per-lane LRU path table, and proto-lane promotion.
package lane

import (
	"github.com/starlane-io/starlane/wave"
)

// FrameKind tags what physically crosses a lane.
type FrameKind uint8

const (
	FrameProto FrameKind = iota // handshake: Knock/Greet
	FrameStarMessage
	FrameStarWind
	FrameWatch
	FrameEntityEvent
	FrameClose
)

func (k FrameKind) String() string {
	switch k {
	case FrameProto:
		return "Proto"
	case FrameStarMessage:
		return "StarMessage"
	case FrameStarWind:
		return "StarWind"
	case FrameWatch:
		return "Watch"
	case FrameEntityEvent:
		return "EntityEvent"
	case FrameClose:
		return "Close"
	default:
		return "?frame?"
	}
}

// WindDirection distinguishes a wind-up pathfinding request from its
// wind-down response.
type WindDirection uint8

const (
	WindUp WindDirection = iota
	WindDown
)

// Frame is a single unit crossing a lane. Everything except StarMessage
// is lane-local control and never reaches a traversal pipeline.
type Frame struct {
	Kind FrameKind

	// StarMessage payload.
	Wave *wave.Wave

	// StarWind payload.
	WindDirection WindDirection
	WindPayload   []byte // windfinder-encoded Search/Report, opaque to lane

	// Watch / EntityEvent / Proto / Close payloads are all opaque byte
	// blobs at the lane layer; their owning subsystem decodes them.
	Payload []byte

	// Tid correlates this frame to a per-star transaction, when non-zero.
	Tid string
}

func NewStarMessageFrame(w *wave.Wave) Frame {
	return Frame{Kind: FrameStarMessage, Wave: w}
}

func NewWindFrame(dir WindDirection, tid string, payload []byte) Frame {
	return Frame{Kind: FrameStarWind, WindDirection: dir, Tid: tid, WindPayload: payload}
}

func NewCloseFrame() Frame {
	return Frame{Kind: FrameClose}
}
