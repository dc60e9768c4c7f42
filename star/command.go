package star

import (
	"github.com/starlane-io/starlane/lane"
)

// CommandKind enumerates the star loop's command table. Only frame
// arrival and lifecycle control are routed through the loop;
// everything else that only touches this star's already-synchronized
// collaborators (Lanes, Hold, Winds, Trackers, Exchange) is a plain
// method call; see star.go's doc comment for why.
type CommandKind uint8

const (
	// CmdInit is a no-op barrier: a caller that Enqueues/calls it
	// synchronously knows every command enqueued before it has been
	// processed once its reply arrives.
	CmdInit CommandKind = iota
	CmdFrameReceived
	CmdShutdown
)

func (k CommandKind) String() string {
	switch k {
	case CmdInit:
		return "Init"
	case CmdFrameReceived:
		return "FrameReceived"
	case CmdShutdown:
		return "Shutdown"
	default:
		return "?command?"
	}
}

// Result is posted on a Command's Reply channel, when it has one.
type Result struct {
	Value interface{}
	Err   error
}

// Command is a single unit of work the star loop processes one at a
// time, in the order it's pulled off the command channel. Only the
// fields relevant to Kind are populated; a Command that expects a reply
// carries a non-nil Reply channel (buffered by 1, so dispatch never
// blocks posting its result).
type Command struct {
	Kind CommandKind

	// FrameReceived
	ArrivalLane  lane.StarKey // zero value if the frame arrived on a not-yet-identified proto-lane
	ArrivalProto *lane.ProtoLane
	Frame        lane.Frame

	Reply chan Result
}

// reply posts r on cmd.Reply if non-nil; safe to call on commands that
// expect no reply.
func (cmd Command) reply(r Result) {
	if cmd.Reply != nil {
		cmd.Reply <- r
	}
}
