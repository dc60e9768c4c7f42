// Package kind defines the particle Kind taxonomy and the per-kind
// traversal plan table that selects which layers a wave walks through.
package kind

import (
	"fmt"

	"github.com/starlane-io/starlane/surface"
)

// BaseKind is the coarse particle category.
type BaseKind uint8

const (
	BaseUnknown BaseKind = iota
	BaseSpace
	BaseBase
	BaseMechtron
	BaseFile
	BaseFileSystem
	BaseApp
	BaseControl
	BaseStar
	BaseUserBase
	BaseRepo
)

func (b BaseKind) String() string {
	switch b {
	case BaseSpace:
		return "Space"
	case BaseBase:
		return "Base"
	case BaseMechtron:
		return "Mechtron"
	case BaseFile:
		return "File"
	case BaseFileSystem:
		return "FileSystem"
	case BaseApp:
		return "App"
	case BaseControl:
		return "Control"
	case BaseStar:
		return "Star"
	case BaseUserBase:
		return "UserBase"
	case BaseRepo:
		return "Repo"
	default:
		return "Unknown"
	}
}

// SubKind refines a BaseKind (e.g. which kind of File). Optional.
type SubKind struct {
	Set  bool
	Name string
}

// Specific is the fully-qualified provider:vendor:product:variant:version
// tuple that selects a concrete driver implementation.
type Specific struct {
	Set      bool
	Provider string
	Vendor   string
	Product  string
	Variant  string
	Version  string
}

func (s Specific) String() string {
	if !s.Set {
		return ""
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s", s.Provider, s.Vendor, s.Product, s.Variant, s.Version)
}

// Kind identifies the type of a particle, selecting both the driver that
// hosts it and the traversal plan a wave directed at it follows.
type Kind struct {
	Base     BaseKind
	Sub      SubKind
	Specific Specific
}

func (k Kind) String() string {
	s := k.Base.String()
	if k.Sub.Set {
		s += "<" + k.Sub.Name + ">"
	}
	if k.Specific.Set {
		s += "[" + k.Specific.String() + "]"
	}
	return s
}

// Direction is the traversal order a wave walks a TraversalPlan in.
type Direction uint8

const (
	DirectionDirected  Direction = iota // field -> shell -> core
	DirectionReflected                  // core -> shell -> field -> gravity
)

// TraversalPlan is the per-kind ordered layer list for each direction, as
// described below.
type TraversalPlan struct {
	Directed  []surface.Layer
	Reflected []surface.Layer
}

var defaultPlan = TraversalPlan{
	Directed:  []surface.Layer{surface.LayerField, surface.LayerShell, surface.LayerCore},
	Reflected: []surface.Layer{surface.LayerCore, surface.LayerShell, surface.LayerField, surface.LayerGravity},
}

// guestPlan inserts the Guest layer between Shell and Core for mechtron
// particles, whose core runs inside the (external) WASM sandbox hosted
// behind the Guest layer.
var guestPlan = TraversalPlan{
	Directed:  []surface.Layer{surface.LayerField, surface.LayerShell, surface.LayerGuest, surface.LayerCore},
	Reflected: []surface.Layer{surface.LayerCore, surface.LayerGuest, surface.LayerShell, surface.LayerField, surface.LayerGravity},
}

// planTable maps a BaseKind to its TraversalPlan. Every Kind not listed
// here uses defaultPlan.
var planTable = map[BaseKind]TraversalPlan{
	BaseMechtron: guestPlan,
}

// PlanFor returns the TraversalPlan for k.
func PlanFor(k Kind) TraversalPlan {
	if p, ok := planTable[k.Base]; ok {
		return p
	}
	return defaultPlan
}

// Layers returns the ordered layer list k's wave of direction d walks.
func (p TraversalPlan) Layers(d Direction) []surface.Layer {
	if d == DirectionReflected {
		return p.Reflected
	}
	return p.Directed
}
