// Package wave implements the Starlane wave model: the immutable directed
// and reflected message types, identities, recipients and handling
// directives that flow across lanes between stars.
package wave

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind distinguishes the five wave variants.
type Kind uint8

const (
	KindPing Kind = iota
	KindSignal
	KindRipple
	KindPong
	KindEcho
)

func (k Kind) String() string {
	switch k {
	case KindPing:
		return "Ping"
	case KindSignal:
		return "Signal"
	case KindRipple:
		return "Ripple"
	case KindPong:
		return "Pong"
	case KindEcho:
		return "Echo"
	default:
		return "?kind?"
	}
}

// IsDirected reports whether k is one of the three directed variants.
func (k Kind) IsDirected() bool {
	return k == KindPing || k == KindSignal || k == KindRipple
}

// IsReflected reports whether k is one of the two reflected variants.
func (k Kind) IsReflected() bool {
	return k == KindPong || k == KindEcho
}

// Id is a wave's globally unique correlation key: a (kind, uuid) pair,
// stringifiable and comparable.
type Id struct {
	Kind Kind
	UUID uuid.UUID
}

// NewId mints a fresh Id of the given kind.
func NewId(k Kind) Id {
	return Id{Kind: k, UUID: uuid.New()}
}

func (i Id) String() string {
	return fmt.Sprintf("<Wave<%s>>::%s", i.Kind, i.UUID.String())
}

// ShortString truncates the uuid to its first 8 characters, as used in logs.
func (i Id) ShortString() string {
	s := i.UUID.String()
	if len(s) > 8 {
		s = s[:8]
	}
	return fmt.Sprintf("<Wave<%s>>::%s", i.Kind, s)
}
