// Package gate implements the connection handshake and hop/transport
// envelope encapsulation that let a Wave cross a star boundary:
// Knock/Greet over a fresh transport, and the Hop/Transport signal
// wrapping that carries an inner wave one lane-hop or end-to-end.
package gate

import (
	"github.com/starlane-io/starlane/surface"
	"github.com/starlane-io/starlane/wave"
)

// InterchangeKind selects which Gate handles a connecting transport.
type InterchangeKind uint8

const (
	InterchangeStar InterchangeKind = iota
	InterchangeWeb
	InterchangeMachine
)

func (k InterchangeKind) String() string {
	switch k {
	case InterchangeStar:
		return "Star"
	case InterchangeWeb:
		return "Web"
	case InterchangeMachine:
		return "Machine"
	default:
		return "?interchange?"
	}
}

// Knock is the first frame sent on any freshly connected transport,
// naming which gate it wants and carrying its authentication substance.
type Knock struct {
	Kind   InterchangeKind
	Auth   wave.Substance
	Remote *surface.Surface
}

// Greet is the gate's reply to a successful Knock: the surface the
// caller is now recognized as, the agent it authenticated to, and the
// hop/transport surfaces subsequent frames should address.
type Greet struct {
	Surface   surface.Surface
	Agent     wave.Agent
	Hop       surface.Surface
	Transport surface.Surface
}
