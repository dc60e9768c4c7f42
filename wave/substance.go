package wave

import (
	"github.com/starlane-io/starlane/point"
	"github.com/starlane-io/starlane/surface"
)

// SubstanceKind tags the variant held by a Substance.
type SubstanceKind uint8

const (
	SubstanceEmpty SubstanceKind = iota
	SubstanceBin
	SubstanceText
	SubstanceMap
	SubstanceList
	SubstancePoint
	SubstanceSurface
	SubstanceCommand
	SubstanceWave
	SubstanceError
)

func (k SubstanceKind) String() string {
	switch k {
	case SubstanceEmpty:
		return "Empty"
	case SubstanceBin:
		return "Bin"
	case SubstanceText:
		return "Text"
	case SubstanceMap:
		return "Map"
	case SubstanceList:
		return "List"
	case SubstancePoint:
		return "Point"
	case SubstanceSurface:
		return "Surface"
	case SubstanceCommand:
		return "Command"
	case SubstanceWave:
		return "Wave"
	case SubstanceError:
		return "Err"
	default:
		return "?substance?"
	}
}

// Substance is the wave body ADT. Exactly the field matching Kind is
// meaningful; the rest are zero values.
type Substance struct {
	Kind SubstanceKind

	Bin     []byte
	Text    string
	Map     map[string]Substance
	List    []Substance
	Point   point.Point
	Surface surface.Surface
	Command string // command name; args travel as a nested Map
	Wave    *Wave  // a waves wrapped as payload (e.g. a hop)
	Err     string
}

func SubstanceOfEmpty() Substance { return Substance{Kind: SubstanceEmpty} }

func SubstanceOfBin(b []byte) Substance { return Substance{Kind: SubstanceBin, Bin: b} }

func SubstanceOfText(s string) Substance { return Substance{Kind: SubstanceText, Text: s} }

func SubstanceOfMap(m map[string]Substance) Substance {
	return Substance{Kind: SubstanceMap, Map: m}
}

func SubstanceOfList(l []Substance) Substance { return Substance{Kind: SubstanceList, List: l} }

func SubstanceOfPoint(p point.Point) Substance { return Substance{Kind: SubstancePoint, Point: p} }

func SubstanceOfSurface(s surface.Surface) Substance {
	return Substance{Kind: SubstanceSurface, Surface: s}
}

func SubstanceOfCommand(name string) Substance {
	return Substance{Kind: SubstanceCommand, Command: name}
}

func SubstanceOfWave(w *Wave) Substance { return Substance{Kind: SubstanceWave, Wave: w} }

func SubstanceOfError(msg string) Substance { return Substance{Kind: SubstanceError, Err: msg} }

// IsEmpty reports whether this substance carries no payload.
func (s Substance) IsEmpty() bool { return s.Kind == SubstanceEmpty }
