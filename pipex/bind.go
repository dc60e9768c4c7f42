// Package pipex implements the bind/pipeline executor that runs at a
// particle's field layer: selecting a route for an inbound directed
// wave and walking its step/stop segments.
package pipex

import (
	"fmt"
	"regexp"

	"github.com/starlane-io/starlane/wave"
)

// Selector matches a directed wave's method and path against a route.
type Selector struct {
	Space       wave.MethodSpace
	Verb        string // exact match against the Method's verb String(); "*" matches any verb in Space
	PathPattern *regexp.Regexp
}

// Matches reports whether core's method/uri satisfies this selector,
// returning the env captures (regex named groups from PathPattern) on
// success.
func (s Selector) Matches(core wave.DirectedCore) (Env, bool) {
	if core.Method.Space != s.Space {
		return Env{}, false
	}
	if s.Verb != "*" && s.Verb != verbString(core.Method) {
		return Env{}, false
	}
	env := Env{Vars: map[string]string{}}
	if s.PathPattern != nil {
		m := s.PathPattern.FindStringSubmatch(core.Uri)
		if m == nil {
			return Env{}, false
		}
		for i, name := range s.PathPattern.SubexpNames() {
			if i == 0 || name == "" {
				continue
			}
			env.Vars[name] = m[i]
		}
	}
	return env, true
}

func verbString(m wave.Method) string {
	switch m.Space {
	case wave.SpaceHyp:
		return m.Hyp.String()
	case wave.SpaceCmd:
		return m.Cmd.String()
	case wave.SpaceHttp:
		return m.Http.String()
	case wave.SpaceExt:
		return string(m.Ext)
	default:
		return ""
	}
}

// Env captures regex path groups and bind-local variables for one
// pipeline run.
type Env struct {
	Vars map[string]string
}

// Route pairs a Selector with the pipeline segments to run on match.
type Route struct {
	Selector Selector
	Block    []Segment
}

// Bind is a particle's full set of routes, tried in order.
type Bind struct {
	Routes []Route
}

// Select finds the first Route whose Selector matches core, returning
// its Env. ok is false if no route matches.
func (b Bind) Select(core wave.DirectedCore) (Route, Env, bool) {
	for _, r := range b.Routes {
		if env, ok := r.Selector.Matches(core); ok {
			return r, env, true
		}
	}
	return Route{}, Env{}, false
}

func (b Bind) String() string {
	return fmt.Sprintf("bind[%d routes]", len(b.Routes))
}
