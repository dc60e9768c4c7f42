// Package surface defines wave endpoints: a Point paired with the layer
// and topic that actually receives it, plus the recipient-set types a
// wave addresses.
package surface

import (
	"fmt"

	"github.com/starlane-io/starlane/point"
	"github.com/starlane-io/starlane/utils/set"
)

// Layer is the traversal-plan layer a Surface is reached at.
type Layer uint8

const (
	LayerGravity Layer = iota
	LayerField
	LayerShell
	LayerGuest
	LayerCore
)

func (l Layer) String() string {
	switch l {
	case LayerGravity:
		return "Gravity"
	case LayerField:
		return "Field"
	case LayerShell:
		return "Shell"
	case LayerGuest:
		return "Guest"
	case LayerCore:
		return "Core"
	default:
		return "?layer?"
	}
}

// TopicKind distinguishes the flavors a Topic may take.
type TopicKind uint8

const (
	TopicNone TopicKind = iota
	TopicUuid
	TopicKey
	TopicNotInitiated
)

// Topic further scopes a Surface within its Layer.
type Topic struct {
	Kind TopicKind
	Uuid string // populated for TopicUuid
	Key  string // populated for TopicKey
}

func (t Topic) String() string {
	switch t.Kind {
	case TopicNone:
		return ""
	case TopicUuid:
		return t.Uuid
	case TopicKey:
		return t.Key
	case TopicNotInitiated:
		return "?"
	default:
		return "?topic?"
	}
}

// Surface is the true endpoint of a wave: a Point is ambiguous as to
// which layer receives it, a Surface is not.
type Surface struct {
	Point point.Point
	Layer Layer
	Topic Topic
}

func (s Surface) String() string {
	if s.Topic.Kind == TopicNone {
		return fmt.Sprintf("%s@%s", s.Point.String(), s.Layer)
	}
	return fmt.Sprintf("%s@%s#%s", s.Point.String(), s.Layer, s.Topic)
}

// Key returns a value usable as a comparable map key for this Surface.
func (s Surface) Key() string { return s.String() }

// RecipientsKind enumerates the destination-set shapes a wave can carry.
type RecipientsKind uint8

const (
	RecipientsSingle RecipientsKind = iota
	RecipientsMulti
	RecipientsWatchers
	RecipientsStars
)

// WatcherFilter selects watching surfaces by point prefix and layer; the
// concrete matching semantics belong to the registry collaborator, this
// is just the filter payload a wave carries.
type WatcherFilter struct {
	PointPrefix string
	Layer       Layer
}

// Recipients is the destination set of a wave. Single-recipient waves
// may be routed over any lane; Multi/Watchers/Stars recipients are
// ripples and may be sharded across lanes.
type Recipients struct {
	Kind    RecipientsKind
	Single  Surface
	Multi   []Surface
	Filter  WatcherFilter
}

// IsMulti reports whether this recipient set can address more than one
// surface, i.e. requires a Ripple rather than a Ping/Signal.
func (r Recipients) IsMulti() bool {
	return r.Kind != RecipientsSingle
}

// Of builds a single-surface Recipients.
func Of(s Surface) Recipients {
	return Recipients{Kind: RecipientsSingle, Single: s}
}

// OfMany builds a multi-surface Recipients, deduplicating by Key.
func OfMany(surfaces ...Surface) Recipients {
	seen := set.NewSet[string](len(surfaces))
	out := make([]Surface, 0, len(surfaces))
	for _, s := range surfaces {
		k := s.Key()
		if seen.Contains(k) {
			continue
		}
		seen.Add(k)
		out = append(out, s)
	}
	return Recipients{Kind: RecipientsMulti, Multi: out}
}
