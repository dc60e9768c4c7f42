// Package point implements Starlane's hierarchical addressing scheme.
//
// A Point is an ordered sequence of segments prefixed by a route. Most of
// the mesh never looks inside a Point's segments directly; it asks the
// point to render itself to a string for use as a map key, or resolves a
// variable/context form against an Env before using it.
package point

import (
	"errors"
	"fmt"
	"strings"
)

// Route identifies which part of the mesh a Point is relative to.
type Route struct {
	Kind RouteKind
	Name string // populated for RouteDomain, RouteTag, RouteStar
}

type RouteKind uint8

const (
	RouteThis RouteKind = iota
	RouteLocal
	RouteRemote
	RouteGlobal
	RouteDomain
	RouteTag
	RouteStar
)

func (r Route) String() string {
	switch r.Kind {
	case RouteThis:
		return ""
	case RouteLocal:
		return "LOCAL"
	case RouteRemote:
		return "REMOTE"
	case RouteGlobal:
		return "GLOBAL"
	case RouteDomain:
		return r.Name
	case RouteTag:
		return "[" + r.Name + "]"
	case RouteStar:
		return "STAR(" + r.Name + ")"
	default:
		return "?route?"
	}
}

// SegKind enumerates the scope/filesystem segment kinds a Point can carry.
type SegKind uint8

const (
	SegRoot SegKind = iota
	SegSpace
	SegBase
	SegFsRoot
	SegDir
	SegFile
	SegVersion
	// pre-resolution-only forms
	SegVar
	SegWorking // "."
	SegPop     // ".."
)

// Segment is a single element of a Point's path.
type Segment struct {
	Kind SegKind
	Name string // Space/Base/Dir/File/Version/Var name; empty for Root/FsRoot/Working/Pop
}

func (s Segment) inFilesystem() bool {
	switch s.Kind {
	case SegFsRoot, SegDir, SegFile:
		return true
	default:
		return false
	}
}

func (s Segment) String() string {
	switch s.Kind {
	case SegRoot:
		return ""
	case SegFsRoot:
		return "/"
	case SegSpace, SegBase, SegDir, SegFile, SegVersion, SegVar:
		return s.Name
	case SegWorking:
		return "."
	case SegPop:
		return ".."
	default:
		return "?seg?"
	}
}

// Point is an immutable hierarchical address.
type Point struct {
	Route    Route
	Segments []Segment
}

var (
	// ErrUnresolvedVar is returned by Resolve when a ${var} segment has
	// no binding in the supplied Env.
	ErrUnresolvedVar = errors.New("point: unresolved variable")
	// ErrPopUnderflow is returned when ".." pops past the root.
	ErrPopUnderflow = errors.New("point: '..' has no parent segment to pop")
	// ErrFilesystemOrder is returned when Dir/File appears before any FsRoot.
	ErrFilesystemOrder = errors.New("point: filesystem segment before FsRoot")
	// ErrFileNotTerminal is returned when a segment follows a File segment.
	ErrFileNotTerminal = errors.New("point: File segment must be terminal")
)

// Validate checks the filesystem-ordering and File-terminality invariants
// per the point grammar.
func (p Point) Validate() error {
	inFS := false
	for i, s := range p.Segments {
		if s.inFilesystem() {
			if s.Kind != SegFsRoot {
				if !inFS {
					return ErrFilesystemOrder
				}
			}
			if s.Kind == SegFsRoot {
				inFS = true
			}
		}
		if s.Kind == SegFile && i != len(p.Segments)-1 {
			return ErrFileNotTerminal
		}
	}
	return nil
}

// String renders the Point in its canonical form: route, then segments
// joined by ':' until the first FsRoot, then '/' thereafter. The FsRoot
// segment itself renders as the ':' + '/' transition, e.g.
// "apps:my-app:/files/index.html".
func (p Point) String() string {
	var b strings.Builder
	if rs := p.Route.String(); rs != "" {
		b.WriteString(rs)
		b.WriteString("::")
	}

	var scope, fs []string
	sawFsRoot := false
	for _, s := range p.Segments {
		switch s.Kind {
		case SegRoot:
			continue
		case SegFsRoot:
			sawFsRoot = true
		default:
			if sawFsRoot {
				fs = append(fs, s.String())
			} else {
				scope = append(scope, s.String())
			}
		}
	}

	b.WriteString(strings.Join(scope, ":"))
	if sawFsRoot {
		if len(scope) > 0 {
			b.WriteString(":")
		}
		b.WriteString("/")
		b.WriteString(strings.Join(fs, "/"))
	}
	return b.String()
}

// Parent returns the Point with its last segment removed, or false if p
// is already root.
func (p Point) Parent() (Point, bool) {
	if len(p.Segments) == 0 || p.IsRoot() {
		return Point{}, false
	}
	return Point{Route: p.Route, Segments: p.Segments[:len(p.Segments)-1]}, true
}

// Push appends a segment, returning a new Point (Points are immutable).
func (p Point) Push(s Segment) Point {
	segs := make([]Segment, len(p.Segments)+1)
	copy(segs, p.Segments)
	segs[len(p.Segments)] = s
	return Point{Route: p.Route, Segments: segs}
}

// Env carries the bindings a Point's variable/context segments resolve
// against: the working point (for '.' and '..') and named variables.
type Env struct {
	Working Point
	Vars    map[string]string
}

// Resolve reduces variable (${var}) and context ('.', '..') segments
// against env, returning a Point with only resolved segment kinds.
func (p Point) Resolve(env Env) (Point, error) {
	out := Point{Route: p.Route}
	for _, s := range p.Segments {
		switch s.Kind {
		case SegRoot:
			continue
		case SegWorking:
			for _, ws := range env.Working.Segments {
				if ws.Kind != SegRoot {
					out.Segments = append(out.Segments, ws)
				}
			}
		case SegPop:
			if len(out.Segments) == 0 {
				return Point{}, ErrPopUnderflow
			}
			out.Segments = out.Segments[:len(out.Segments)-1]
		case SegVar:
			val, ok := env.Vars[s.Name]
			if !ok {
				return Point{}, fmt.Errorf("%w: %s", ErrUnresolvedVar, s.Name)
			}
			seg, err := ParseSegment(val)
			if err != nil {
				return Point{}, err
			}
			out.Segments = append(out.Segments, seg)
		default:
			out.Segments = append(out.Segments, s)
		}
	}
	out.Segments = append([]Segment{{Kind: SegRoot}}, out.Segments...)
	if err := out.Validate(); err != nil {
		return Point{}, err
	}
	return out, nil
}

// HasUnresolved reports whether p still carries Var/Working/Pop segments.
func (p Point) HasUnresolved() bool {
	for _, s := range p.Segments {
		if s.Kind == SegVar || s.Kind == SegWorking || s.Kind == SegPop {
			return true
		}
	}
	return false
}

// IsRoot reports whether p addresses the mesh root (no segments beyond Root).
func (p Point) IsRoot() bool {
	for _, s := range p.Segments {
		if s.Kind != SegRoot {
			return false
		}
	}
	return true
}
