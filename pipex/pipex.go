package pipex

import (
	"context"
	"errors"

	"github.com/starlane-io/starlane/point"
	"github.com/starlane-io/starlane/wave"
)

// ShellTransmitter forwards the pipeline's current request to a
// particle's Core layer and returns its reply.
type ShellTransmitter interface {
	ToCore(ctx context.Context, core wave.DirectedCore) (wave.ReflectedCore, error)
}

// GravityTransmitter sends a reflected wave back to the original sender,
// or a brand new directed wave to a retargeted point.
type GravityTransmitter interface {
	Reflect(ctx context.Context, refl wave.Reflection, core wave.ReflectedCore) error
	ToPoint(ctx context.Context, to point.Point, core wave.DirectedCore) (wave.ReflectedCore, error)
}

// PipeEx is the mutable execution state of one pipeline run.
type PipeEx struct {
	Env    Env
	Method wave.Method
	Uri    string
	Status int
	Body   wave.Substance

	Shell   ShellTransmitter
	Gravity GravityTransmitter

	// Reflection is set when the originating wave expects one (Ping or
	// bounce-carrying Ripple); a failed stop emits a reflected error via
	// this when present, else terminates silently.
	Reflection *wave.Reflection
}

// NewPipeEx seeds a PipeEx from the inbound directed core and the env
// captured by Bind.Select.
func NewPipeEx(core wave.DirectedCore, env Env, refl *wave.Reflection, shell ShellTransmitter, gravity GravityTransmitter) *PipeEx {
	return &PipeEx{
		Env:        env,
		Method:     core.Method,
		Uri:        core.Uri,
		Body:       core.Body,
		Status:     0,
		Shell:      shell,
		Gravity:    gravity,
		Reflection: refl,
	}
}

func (p *PipeEx) current() wave.Substance { return p.Body }

// Run executes block to completion: one segment at a time. Core and
// Point stops feed their reply into the next segment; the run ends at a
// Reflect or Err stop, a Step that does not match, or a stop that
// returns an error (a Call stop always does). A block
// that runs out of segments without ever reaching a terminal Reflect/Err
// stop - the empty block included - still owes the sender a reply, so
// falling off the end reflects whatever status/body is current.
func (p *PipeEx) Run(ctx context.Context, block []Segment) error {
	for _, seg := range block {
		if !seg.Step.Matches(p.current()) {
			return p.fail(ctx, 400, "no step pattern matches current body")
		}
		done, err := p.runStop(ctx, seg.Stop)
		if err != nil {
			return p.fail(ctx, 500, err.Error())
		}
		if done {
			return nil
		}
	}
	return p.reflectCurrent(ctx)
}

// reflectCurrent sends the pipeline's current status/body back through
// the original reflection, if the originating wave expects one; a no-op
// otherwise.
func (p *PipeEx) reflectCurrent(ctx context.Context) error {
	if p.Reflection == nil {
		return nil
	}
	core := wave.ReflectedCore{Status: p.statusOrOK(), Body: p.Body}
	return p.Gravity.Reflect(ctx, *p.Reflection, core)
}

// runStop executes a single Stop, returning done=true once the pipeline
// has reached a terminal action (Reflect or Err). A Call stop returns an
// error.
func (p *PipeEx) runStop(ctx context.Context, stop Stop) (bool, error) {
	switch stop.Kind {
	case StopCore:
		reply, err := p.Shell.ToCore(ctx, wave.DirectedCore{Method: p.Method, Uri: p.Uri, Body: p.Body})
		if err != nil {
			return false, err
		}
		p.Status = reply.Status
		p.Body = reply.Body
		return false, nil

	case StopReflect:
		if p.Reflection == nil {
			return true, nil
		}
		core := wave.ReflectedCore{Status: p.statusOrOK(), Body: p.Body}
		return true, p.Gravity.Reflect(ctx, *p.Reflection, core)

	case StopPoint:
		resolved, err := point.Parse(stop.Point)
		if err != nil {
			return false, err
		}
		var env point.Env
		if wp, ok := p.Env.Vars["__working__"]; ok {
			wpPoint, werr := point.Parse(wp)
			if werr == nil {
				env.Working = wpPoint
			}
		}
		env.Vars = p.Env.Vars
		resolved, err = resolved.Resolve(env)
		if err != nil {
			return false, err
		}
		reply, err := p.Gravity.ToPoint(ctx, resolved, wave.DirectedCore{Method: p.Method, Uri: p.Uri, Body: p.Body})
		if err != nil {
			return false, err
		}
		p.Status = reply.Status
		p.Body = reply.Body
		return false, nil

	case StopCall:
		return false, errors.New("pipex: Call stops are reserved and not yet implemented")

	case StopErr:
		p.Status = stop.ErrStatus
		p.Body = wave.SubstanceOfError(stop.ErrMessage)
		if p.Reflection != nil {
			_ = p.Gravity.Reflect(ctx, *p.Reflection, wave.ReflectedCore{Status: p.Status, Body: p.Body})
		}
		return true, nil

	default:
		return false, errors.New("pipex: unknown stop kind")
	}
}

func (p *PipeEx) statusOrOK() int {
	if p.Status == 0 {
		return 200
	}
	return p.Status
}

// fail emits a reflected error via the original reflection if one
// exists; otherwise the pipeline terminates silently.
func (p *PipeEx) fail(ctx context.Context, status int, msg string) error {
	if p.Reflection == nil {
		return nil
	}
	return p.Gravity.Reflect(ctx, *p.Reflection, wave.NewErrCore(status, msg))
}
