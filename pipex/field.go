package pipex

import (
	"context"

	"github.com/starlane-io/starlane/wave"
)

// RunField is the field-layer entry point: select a route from bind for
// the inbound wave and run it. If no route matches and the wave's method
// is a Cmd verb, an implicit Core -> Reflect pipeline is synthesized
// (call the core, reflect its reply); for any other method-space a
// non-match is a 404.
func RunField(ctx context.Context, bind Bind, w *wave.Wave, shell ShellTransmitter, gravity GravityTransmitter) error {
	refl, hasRefl := w.Reflection()
	var reflPtr *wave.Reflection
	if hasRefl {
		reflPtr = &refl
	}

	route, env, ok := bind.Select(w.DirectedBody)
	if !ok {
		if w.DirectedBody.Method.Space == wave.SpaceCmd {
			route = Route{Block: []Segment{{Stop: StopOfCore()}, {Stop: StopOfReflect()}}}
			env = Env{Vars: map[string]string{}}
		} else {
			if reflPtr != nil {
				return gravity.Reflect(ctx, *reflPtr, wave.NewNotFoundCore("no route matches "+w.DirectedBody.Uri))
			}
			return nil
		}
	}

	px := NewPipeEx(w.DirectedBody, env, reflPtr, shell, gravity)
	return px.Run(ctx, route.Block)
}
