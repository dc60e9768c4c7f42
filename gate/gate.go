package gate

import (
	"context"
	"errors"

	"github.com/starlane-io/starlane/lane"
)

// ErrAuthFailed is returned by an Authenticator that rejects a Knock.
var ErrAuthFailed = errors.New("gate: authentication failed")

// Authenticator validates a Knock's auth substance, returning a Greet
// whose Agent is the identity it authenticates as. Concrete credential checking (TLS, tokens) lives
// with the deployment; the mesh core only depends on this contract.
type Authenticator interface {
	Authenticate(ctx context.Context, k Knock) (Greet, error)
}

// Greeter mints the post-handshake Greet once a Knock has authenticated,
// given the surface the mesh assigns the new endpoint.
type Greeter interface {
	Greet(ctx context.Context, k Knock, base Greet) (Greet, error)
}

// Gate owns one InterchangeKind's handshake: an Authenticator and a
// Greeter, plus a per-remote-star Authenticator override.
type Gate struct {
	Auth      Authenticator
	Greeter   Greeter
	StarAuth  map[lane.StarKey]Authenticator
}

// NewGate builds a Gate with the given default authenticator and greeter.
func NewGate(auth Authenticator, greeter Greeter) *Gate {
	return &Gate{Auth: auth, Greeter: greeter, StarAuth: map[lane.StarKey]Authenticator{}}
}

// authenticatorFor picks the per-remote-star override if one is
// registered for k.Remote, else the gate's default.
func (g *Gate) authenticatorFor(k Knock) Authenticator {
	if k.Remote != nil {
		if a, ok := g.StarAuth[lane.StarKeyOf(k.Remote.Point.String())]; ok {
			return a
		}
	}
	return g.Auth
}

// Endpoint runs the full handshake: Knock -> auth -> greet -> a usable
// endpoint identity. The transport itself (the thing Knock/Greet travel
// over) is out of this method's scope; callers read the Knock off their
// transport, call Endpoint, then write the resulting Greet back.
func (g *Gate) Endpoint(ctx context.Context, k Knock) (Greet, error) {
	greet, err := g.authenticatorFor(k).Authenticate(ctx, k)
	if err != nil {
		return Greet{}, err
	}
	if g.Greeter != nil {
		return g.Greeter.Greet(ctx, k, greet)
	}
	return greet, nil
}

// Selector maps an InterchangeKind to the Gate that handles it.
type Selector map[InterchangeKind]*Gate

func (s Selector) Select(k InterchangeKind) (*Gate, bool) {
	g, ok := s[k]
	return g, ok
}
