package wave

import (
	"fmt"

	"github.com/starlane-io/starlane/surface"
)

// Wave is the immutable, fully-built message exchanged between stars.
// Every variant shares the header fields below; exactly one of
// DirectedBody/ReflectedBody is populated depending on Kind, and exactly
// the fields relevant to Kind are meaningful.
type Wave struct {
	Id       Id
	Session  string // empty if none
	Agent    Agent
	Handling Handling
	Scope    Scope
	From     surface.Surface
	Via      *surface.Surface // set when a proxy redirects replies through itself
	Hops     int
	Track    bool // when set, traversal logs each layer hop for this wave

	To          surface.Recipients // destination(s): single surface for Ping/Signal/Pong/Echo, multi for Ripple
	BounceBacks BounceBacks        // ripple only

	ReflectionOf Id               // reflected only: the directed wave.Id this answers
	Intended     surface.Recipients // reflected only: the original recipients, for multi-target correlation

	DirectedBody  DirectedCore
	ReflectedBody ReflectedCore
}

// ReflectSurface is the surface a reply to this wave must be sent to:
// Via when a proxy set it, else From.
func (w *Wave) ReflectSurface() surface.Surface {
	if w.Via != nil {
		return *w.Via
	}
	return w.From
}

func (w *Wave) String() string {
	return fmt.Sprintf("%s[%s from=%s]", w.Id.Kind, w.Id.ShortString(), w.From)
}

// Reflection is minted by reflection() from a directed wave; a receiver
// uses it together with a built core to produce the matching reflected
// wave via Make.
type Reflection struct {
	Kind         Kind // KindPong or KindEcho
	To           surface.Surface
	Intended     surface.Recipients
	ReflectionOf Id
	Track        bool
}

// Reflection derives the Reflection for a directed wave. Signals and
// no-bounce Ripples have nothing to reflect and return ok=false.
func (w *Wave) Reflection() (Reflection, bool) {
	switch w.Id.Kind {
	case KindPing:
		return Reflection{Kind: KindPong, To: w.ReflectSurface(), Intended: surface.Of(w.From), ReflectionOf: w.Id, Track: w.Track}, true
	case KindRipple:
		if !w.BounceBacks.HasBounce() {
			return Reflection{}, false
		}
		return Reflection{Kind: KindEcho, To: w.ReflectSurface(), Intended: surface.Of(w.From), ReflectionOf: w.Id, Track: w.Track}, true
	default:
		return Reflection{}, false
	}
}

// Make mints a reflected Wave matching r, carrying the given core and
// answered from the given surface.
func (r Reflection) Make(from surface.Surface, core ReflectedCore) *Wave {
	return &Wave{
		Id:            NewId(r.Kind),
		Agent:         AgentOfAnonymous(),
		Handling:      DefaultHandling(),
		Scope:         DefaultScope(),
		From:          from,
		To:            surface.Of(r.To),
		ReflectionOf:  r.ReflectionOf,
		Intended:      r.Intended,
		Track:         r.Track,
		ReflectedBody: core,
	}
}
