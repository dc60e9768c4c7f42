package pipex

import "github.com/starlane-io/starlane/wave"

// PatternKind distinguishes a step's substance-pattern blocks.
type PatternKind uint8

const (
	DirectPattern PatternKind = iota
	ReflectPattern
)

// SubstancePattern requires the current body to be of the given kind.
type SubstancePattern struct {
	Kind        PatternKind
	SubstanceOf wave.SubstanceKind
}

// Matches checks p against the current substance.
func (p SubstancePattern) Matches(current wave.Substance) bool {
	return current.Kind == p.SubstanceOf
}

// Step is a set of substance-pattern blocks that must all match the
// current body before the segment's Stop runs; a non-match fails the
// pipeline with a 4xx.
type Step struct {
	Patterns []SubstancePattern
}

func (s Step) Matches(current wave.Substance) bool {
	for _, p := range s.Patterns {
		if !p.Matches(current) {
			return false
		}
	}
	return true
}

// StopKind enumerates the pipeline's segment actions.
type StopKind uint8

const (
	StopCore StopKind = iota
	StopReflect
	StopPoint
	StopCall
	StopErr
)

// Stop is the action a pipeline segment performs once its Step matches.
type Stop struct {
	Kind StopKind

	// StopPoint
	Point string // point string form, resolved against Env before use

	// StopCall (reserved)
	Call string

	// StopErr
	ErrStatus  int
	ErrMessage string
}

func StopOfCore() Stop                       { return Stop{Kind: StopCore} }
func StopOfReflect() Stop                    { return Stop{Kind: StopReflect} }
func StopOfPoint(p string) Stop              { return Stop{Kind: StopPoint, Point: p} }
func StopOfCall(name string) Stop            { return Stop{Kind: StopCall, Call: name} }
func StopOfErr(status int, msg string) Stop  { return Stop{Kind: StopErr, ErrStatus: status, ErrMessage: msg} }

// Segment is one (step, stop) pair in a pipeline Block.
type Segment struct {
	Step Step
	Stop Stop
}
