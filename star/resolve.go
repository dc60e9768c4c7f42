package star

import (
	"context"
	"sync"

	"github.com/starlane-io/starlane/kind"
	"github.com/starlane-io/starlane/lane"
	"github.com/starlane-io/starlane/point"
)

// resolver finds the star hosting a point: a cache, then the local
// registry, then (for a point this registry has no location for) a walk
// up to the point's parent's host star to ask it, bottoming out at
// Central for a root point.
type resolver struct {
	s *Star

	mu    sync.Mutex
	cache map[string]lane.StarKey
}

func newResolver(s *Star) *resolver {
	return &resolver{s: s, cache: map[string]lane.StarKey{}}
}

// Resolve returns the star currently hosting p, consulting (in order)
// the cache, the local registry, and AskCentral/AskStar.
func (r *resolver) Resolve(ctx context.Context, p point.Point) (lane.StarKey, error) {
	key := p.String()

	r.mu.Lock()
	if star, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return star, nil
	}
	r.mu.Unlock()

	star, err := r.resolveUncached(ctx, p)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.cache[key] = star
	r.mu.Unlock()
	return star, nil
}

// Forget drops any cached location for p, e.g. after a SetLocation move
// or a delivery failure that suggests the cache entry is stale.
func (r *resolver) Forget(p point.Point) {
	r.mu.Lock()
	delete(r.cache, p.String())
	r.mu.Unlock()
}

func (r *resolver) resolveUncached(ctx context.Context, p point.Point) (lane.StarKey, error) {
	if r.s.Registry != nil {
		rec, err := r.s.Registry.Record(ctx, p)
		// Only trust the local registry's answer when this star's role
		// is actually the kind of host that kind lives on; otherwise a
		// local record is either absent or a stale cache entry and the
		// point must be resolved the long way, via its parent's host
		// star.
		if err == nil && rec.Location != "" && r.s.HostsKind(rec.Stub.Kind.Base) {
			return rec.Location, nil
		}
	}

	if p.IsRoot() {
		if r.s.AskCentral == nil {
			return "", ErrNotFound
		}
		askCtx, cancel := r.lookupContext(ctx)
		defer cancel()
		star, err := r.s.AskCentral(askCtx, p.String())
		if err != nil {
			return "", err
		}
		return star, nil
	}

	parent, ok := p.Parent()
	if !ok {
		return "", ErrNotFound
	}
	parentStar, err := r.Resolve(ctx, parent)
	if err != nil {
		return "", err
	}

	if r.s.AskStar == nil {
		return "", ErrNotFound
	}
	askCtx, cancel := r.lookupContext(ctx)
	defer cancel()
	return r.s.AskStar(askCtx, parentStar, p.String())
}

// lookupContext bounds a single remote record lookup to the configured
// ResourceLookupTimeout.
func (r *resolver) lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if t := r.s.Config.ResourceLookupTimeout; t > 0 {
		return context.WithTimeout(ctx, t)
	}
	return context.WithCancel(ctx)
}

// HostsKind reports whether base is one of the particle kinds this star
// hosts directly, per HostedKinds.
func (s *Star) HostsKind(base kind.BaseKind) bool {
	return s.HostedKinds[base]
}
