// Package registry defines the collaborator boundary of the mesh core:
// the Registry and Driver interfaces the core asks "what is this
// particle, where does it live, what is its bind config, who hosts it".
// Nothing in this package implements storage, the artifact/bind parser,
// or the WASM guest; those are external collaborators. The core (star,
// pipex) is built only against these interfaces.
package registry

import (
	"context"

	"github.com/starlane-io/starlane/kind"
	"github.com/starlane-io/starlane/lane"
	"github.com/starlane-io/starlane/pipex"
	"github.com/starlane-io/starlane/point"
	"github.com/starlane-io/starlane/wave"
)

// Status is a particle's lifecycle state as the registry tracks it.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusPending
	StatusReady
	StatusPaused
	StatusDone
)

// Stub is a particle's address and kind, without its current location.
type Stub struct {
	Point  point.Point
	Kind   kind.Kind
	Status Status
}

// ParticleRecord is the full registry entry for a particle.
type ParticleRecord struct {
	Stub     Stub
	Location lane.StarKey
}

// ResourceRecord is what the star loop's resolution path caches and
// passes around: a stub plus the star that currently hosts it. It is
// deliberately the same shape as ParticleRecord (the registry's own
// record becomes the mesh's resource record once a location is known),
// kept as a distinct type because a ResourceRecord may also be
// synthesized locally, for a kind this star itself hosts, without ever
// round-tripping through Registry.Record.
type ResourceRecord struct {
	Stub     Stub
	Location lane.StarKey
}

// Property is a single particle property (e.g. a bind override), with
// the registry-assigned metadata carried alongside the value.
type Property struct {
	Key      string
	Value    string
	Locked   bool
	Source   string
}

// Registration is what Register submits to create a new particle.
type Registration struct {
	Point      point.Point
	Kind       kind.Kind
	Properties map[string]Property
}

// Selector filters Select's particle listing. The concrete matching
// semantics (prefix, kind, property predicates) belong to the registry
// collaborator; this is just the query payload the core can construct.
type Selector struct {
	PointPrefix string
	Kind        *kind.BaseKind
}

// UniqueSrc is an allocator handle a driver uses to mint unique child
// segment names under a parent point (e.g. auto-named mechtron instances).
type UniqueSrc interface {
	Next(ctx context.Context) (string, error)
}

// Registry is the storage/directory collaborator: everything the core
// needs to know about a particle's identity, properties and location.
// A Postgres-backed implementation (out of scope here) satisfies this
// interface; tests satisfy it with an in-memory fake.
type Registry interface {
	Record(ctx context.Context, p point.Point) (ParticleRecord, error)
	GetProperties(ctx context.Context, p point.Point) (map[string]Property, error)
	Register(ctx context.Context, reg Registration) error
	SetLocation(ctx context.Context, rec ParticleRecord) error
	Select(ctx context.Context, sel Selector) ([]ParticleRecord, error)
	UniqueSrc(ctx context.Context, parent point.Point) (UniqueSrc, error)
}

// ItemSphere is what Driver.Item returns: exactly one of Handler or
// Router is non-nil. A handler particle answers waves itself; a router
// particle (a proxy) forwards them on, rewriting To/Via as it does so.
type ItemSphere struct {
	Handler ItemHandler
	Router  ItemRouter
}

// IsRouter reports whether this sphere proxies rather than handles.
func (s ItemSphere) IsRouter() bool { return s.Router != nil }

// ItemHandler is a particle's Core-layer implementation: it answers a
// directed wave's core and produces the reflected core.
type ItemHandler interface {
	Handle(ctx context.Context, core wave.DirectedCore) (wave.ReflectedCore, error)
}

// ItemRouter is a proxy particle: rather than answering a wave itself it
// decides where the wave should go next.
type ItemRouter interface {
	Route(ctx context.Context, to point.Point) (point.Point, error)
}

// Driver is the collaborator that hosts a BaseKind: it supplies the
// default bind config for a particle that has no override, and the
// concrete item (handler or router) backing a point.
type Driver interface {
	Bind(ctx context.Context, p point.Point) (pipex.Bind, error)
	Item(ctx context.Context, p point.Point) (ItemSphere, error)
}

// DriverTable maps a BaseKind to the Driver responsible for it.
type DriverTable map[kind.BaseKind]Driver

func (t DriverTable) For(k kind.Kind) (Driver, bool) {
	d, ok := t[k.Base]
	return d, ok
}
