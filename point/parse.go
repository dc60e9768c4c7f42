package point

import (
	"fmt"
	"strings"
)

// ParseSegment parses a single segment token (no route, no separators)
// into a Segment. Used both for top-level segment parsing and for
// resolving ${var} substitutions that themselves need to become a
// concrete segment kind.
func ParseSegment(tok string) (Segment, error) {
	switch {
	case tok == "":
		return Segment{}, fmt.Errorf("point: empty segment")
	case tok == ".":
		return Segment{Kind: SegWorking}, nil
	case tok == "..":
		return Segment{Kind: SegPop}, nil
	case tok == "/":
		return Segment{Kind: SegFsRoot}, nil
	case strings.HasPrefix(tok, "${") && strings.HasSuffix(tok, "}"):
		return Segment{Kind: SegVar, Name: tok[2 : len(tok)-1]}, nil
	default:
		return Segment{Kind: SegBase, Name: tok}, nil
	}
}

// Parse parses the canonical string form of a Point: an optional
// "ROUTE::" prefix, then ':'-joined scope segments, switching to
// '/'-joined segments once a bare '/' (FsRoot) token is seen.
//
// Parse does not attempt to classify Space vs Base vs Version segments
// by position; that disambiguation belongs to the registry collaborator,
// which knows the real hierarchy rooted at a given domain. Parse instead
// produces a point whose segments are either filesystem segments (Dir,
// File once a FsRoot is seen) or generic scope segments (Base), which is
// sufficient for routing: routing only needs String()/equality, not
// semantic segment typing.
func Parse(s string) (Point, error) {
	var p Point

	if idx := strings.Index(s, "::"); idx >= 0 {
		routeStr := s[:idx]
		s = s[idx+2:]
		route, err := parseRoute(routeStr)
		if err != nil {
			return Point{}, err
		}
		p.Route = route
	}

	p.Segments = append(p.Segments, Segment{Kind: SegRoot})

	if s == "" {
		return p, nil
	}

	scopeStr, fsStr, hasFS := cutFsRoot(s)

	if scopeStr != "" {
		for _, tok := range strings.Split(scopeStr, ":") {
			seg, err := ParseSegment(tok)
			if err != nil {
				return Point{}, err
			}
			p.Segments = append(p.Segments, seg)
		}
	}

	if hasFS {
		p.Segments = append(p.Segments, Segment{Kind: SegFsRoot})
		if fsStr != "" {
			fsToks := strings.Split(fsStr, "/")
			for i, tok := range fsToks {
				seg, err := ParseSegment(tok)
				if err != nil {
					return Point{}, err
				}
				if seg.Kind == SegBase {
					if i == len(fsToks)-1 {
						seg.Kind = SegFile
					} else {
						seg.Kind = SegDir
					}
				}
				p.Segments = append(p.Segments, seg)
			}
		}
	}

	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// cutFsRoot splits "scope:scope:/fs/fs" into its scope portion (without
// the trailing ':') and its filesystem portion (without the leading '/'),
// reporting whether a filesystem root was present at all.
func cutFsRoot(s string) (scope, fs string, hasFS bool) {
	slash := strings.IndexByte(s, '/')
	if slash < 0 {
		return s, "", false
	}
	scope = strings.TrimSuffix(s[:slash], ":")
	fs = strings.TrimPrefix(s[slash:], "/")
	return scope, fs, true
}

func parseRoute(s string) (Route, error) {
	switch {
	case s == "":
		return Route{Kind: RouteThis}, nil
	case s == "LOCAL":
		return Route{Kind: RouteLocal}, nil
	case s == "REMOTE":
		return Route{Kind: RouteRemote}, nil
	case s == "GLOBAL":
		return Route{Kind: RouteGlobal}, nil
	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		return Route{Kind: RouteTag, Name: s[1 : len(s)-1]}, nil
	case strings.HasPrefix(s, "STAR(") && strings.HasSuffix(s, ")"):
		return Route{Kind: RouteStar, Name: strings.TrimSuffix(strings.TrimPrefix(s, "STAR("), ")")}, nil
	default:
		return Route{Kind: RouteDomain, Name: s}, nil
	}
}
