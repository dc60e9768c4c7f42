package wave

import (
	"errors"

	"github.com/starlane-io/starlane/surface"
)

var (
	ErrProtoMissingFrom      = errors.New("wave: proto missing from")
	ErrProtoMissingTo        = errors.New("wave: proto missing to")
	ErrProtoMissingMethod    = errors.New("wave: directed proto missing method")
	ErrProtoMissingStatus    = errors.New("wave: reflected proto missing status")
	ErrProtoMissingReflectOf = errors.New("wave: reflected proto missing reflection_of")
)

// DirectedProto is the builder for a Ping, Signal or Ripple. It collects
// optional fields and validates them into an immutable Wave on Build.
type DirectedProto struct {
	Kind     Kind
	From     surface.Surface
	Via      *surface.Surface
	To       surface.Recipients
	Method   *Method
	Uri      string
	Body     Substance
	Headers  map[string]string
	Handling Handling
	Scope    Scope
	Agent    Agent
	Session  string
	Track    bool

	// BounceBacks is required for Ripple; ignored otherwise.
	BounceBacks BounceBacks
}

// NewPing starts a Ping proto.
func NewPing() *DirectedProto { return newDirectedProto(KindPing) }

// NewSignal starts a Signal proto.
func NewSignal() *DirectedProto { return newDirectedProto(KindSignal) }

// NewRipple starts a Ripple proto.
func NewRipple() *DirectedProto {
	p := newDirectedProto(KindRipple)
	p.BounceBacks = BounceBacksOfNone()
	return p
}

func newDirectedProto(k Kind) *DirectedProto {
	return &DirectedProto{
		Kind:     k,
		Handling: DefaultHandling(),
		Scope:    DefaultScope(),
		Agent:    AgentOfAnonymous(),
		Headers:  map[string]string{},
		Body:     SubstanceOfEmpty(),
	}
}

func (p *DirectedProto) WithFrom(s surface.Surface) *DirectedProto { p.From = s; return p }
func (p *DirectedProto) WithVia(s surface.Surface) *DirectedProto  { p.Via = &s; return p }
func (p *DirectedProto) WithTo(r surface.Recipients) *DirectedProto {
	p.To = r
	return p
}
func (p *DirectedProto) WithMethod(m Method) *DirectedProto { p.Method = &m; return p }
func (p *DirectedProto) WithUri(uri string) *DirectedProto  { p.Uri = uri; return p }
func (p *DirectedProto) WithBody(b Substance) *DirectedProto { p.Body = b; return p }
func (p *DirectedProto) WithHandling(h Handling) *DirectedProto { p.Handling = h; return p }
func (p *DirectedProto) WithTrack(t bool) *DirectedProto { p.Track = t; return p }
func (p *DirectedProto) WithBounceBacks(b BounceBacks) *DirectedProto {
	p.BounceBacks = b
	return p
}

// Build validates the proto and mints the immutable Wave.
func (p *DirectedProto) Build() (*Wave, error) {
	if len(p.From.Point.Segments) == 0 {
		return nil, ErrProtoMissingFrom
	}
	if p.Kind == KindRipple {
		if !p.To.IsMulti() {
			return nil, ErrProtoMissingTo
		}
	} else if len(p.To.Single.Point.Segments) == 0 {
		return nil, ErrProtoMissingTo
	}
	if p.Method == nil {
		return nil, ErrProtoMissingMethod
	}

	w := &Wave{
		Id:           NewId(p.Kind),
		Session:      p.Session,
		Agent:        p.Agent,
		Handling:     p.Handling,
		Scope:        p.Scope,
		From:         p.From,
		Via:          p.Via,
		Track:        p.Track,
		To:           p.To,
		BounceBacks:  p.BounceBacks,
		DirectedBody: DirectedCore{Method: *p.Method, Uri: p.Uri, Headers: p.Headers, Body: p.Body},
	}
	return w, nil
}

// ReflectedProto is the builder for a Pong or Echo.
type ReflectedProto struct {
	Kind         Kind
	From         surface.Surface
	To           surface.Recipients
	ReflectionOf *Id
	Intended     surface.Recipients
	Status       *int
	Body         Substance
	Headers      map[string]string
	Handling     Handling
	Scope        Scope
	Agent        Agent
	Track        bool
}

func NewPong() *ReflectedProto { return newReflectedProto(KindPong) }
func NewEcho() *ReflectedProto { return newReflectedProto(KindEcho) }

func newReflectedProto(k Kind) *ReflectedProto {
	return &ReflectedProto{
		Kind:     k,
		Handling: DefaultHandling(),
		Scope:    DefaultScope(),
		Agent:    AgentOfAnonymous(),
		Headers:  map[string]string{},
		Body:     SubstanceOfEmpty(),
	}
}

func (p *ReflectedProto) WithFrom(s surface.Surface) *ReflectedProto { p.From = s; return p }
func (p *ReflectedProto) WithTo(r surface.Recipients) *ReflectedProto {
	p.To = r
	return p
}
func (p *ReflectedProto) WithReflectionOf(id Id) *ReflectedProto { p.ReflectionOf = &id; return p }
func (p *ReflectedProto) WithIntended(r surface.Recipients) *ReflectedProto {
	p.Intended = r
	return p
}
func (p *ReflectedProto) WithStatus(status int) *ReflectedProto { p.Status = &status; return p }
func (p *ReflectedProto) WithBody(b Substance) *ReflectedProto  { p.Body = b; return p }

// Build validates the proto and mints the immutable Wave.
func (p *ReflectedProto) Build() (*Wave, error) {
	if len(p.From.Point.Segments) == 0 {
		return nil, ErrProtoMissingFrom
	}
	if len(p.To.Single.Point.Segments) == 0 {
		return nil, ErrProtoMissingTo
	}
	if p.Status == nil {
		return nil, ErrProtoMissingStatus
	}
	if p.ReflectionOf == nil {
		return nil, ErrProtoMissingReflectOf
	}
	return &Wave{
		Id:            NewId(p.Kind),
		Agent:         p.Agent,
		Handling:      p.Handling,
		Scope:         p.Scope,
		From:          p.From,
		Track:         p.Track,
		To:            p.To,
		ReflectionOf:  *p.ReflectionOf,
		Intended:      p.Intended,
		ReflectedBody: ReflectedCore{Status: *p.Status, Headers: p.Headers, Body: p.Body},
	}, nil
}
