package wave

import "fmt"

// MethodSpace selects which verb enum a Method's verb belongs to.
type MethodSpace uint8

const (
	SpaceHyp MethodSpace = iota
	SpaceCmd
	SpaceHttp
	SpaceExt
)

func (s MethodSpace) String() string {
	switch s {
	case SpaceHyp:
		return "Hyp"
	case SpaceCmd:
		return "Cmd"
	case SpaceHttp:
		return "Http"
	case SpaceExt:
		return "Ext"
	default:
		return "?space?"
	}
}

// HypVerb is the mesh-internal verb space used for lane/hop control.
type HypVerb uint8

const (
	HypKnock HypVerb = iota
	HypGreet
	HypHop
	HypTransport
	HypHost
)

func (v HypVerb) String() string {
	switch v {
	case HypKnock:
		return "Knock"
	case HypGreet:
		return "Greet"
	case HypHop:
		return "Hop"
	case HypTransport:
		return "Transport"
	case HypHost:
		return "Host"
	default:
		return "?hyp?"
	}
}

// CmdVerb is the resource-management verb space.
type CmdVerb uint8

const (
	CmdCommand CmdVerb = iota
	CmdRead
	CmdUpdate
	CmdCreate
	CmdDelete
	CmdSelect
)

func (v CmdVerb) String() string {
	switch v {
	case CmdCommand:
		return "Command"
	case CmdRead:
		return "Read"
	case CmdUpdate:
		return "Update"
	case CmdCreate:
		return "Create"
	case CmdDelete:
		return "Delete"
	case CmdSelect:
		return "Select"
	default:
		return "?cmd?"
	}
}

// HttpVerb mirrors the standard HTTP verb set for particles that expose
// an HTTP-shaped bind.
type HttpVerb uint8

const (
	HttpGet HttpVerb = iota
	HttpPost
	HttpPut
	HttpPatch
	HttpDelete
	HttpHead
	HttpOptions
)

func (v HttpVerb) String() string {
	switch v {
	case HttpGet:
		return "Get"
	case HttpPost:
		return "Post"
	case HttpPut:
		return "Put"
	case HttpPatch:
		return "Patch"
	case HttpDelete:
		return "Delete"
	case HttpHead:
		return "Head"
	case HttpOptions:
		return "Options"
	default:
		return "?http?"
	}
}

// ExtVerb is an open, particle-defined verb name (e.g. "Echo"). Unlike
// the other three spaces it is not a closed enum.
type ExtVerb string

// Method is the tagged union of the four verb spaces a wave's core
// carries. Exactly the field matching Space is populated.
type Method struct {
	Space MethodSpace
	Hyp   HypVerb
	Cmd   CmdVerb
	Http  HttpVerb
	Ext   ExtVerb
}

func MethodHyp(v HypVerb) Method   { return Method{Space: SpaceHyp, Hyp: v} }
func MethodCmd(v CmdVerb) Method   { return Method{Space: SpaceCmd, Cmd: v} }
func MethodHttp(v HttpVerb) Method { return Method{Space: SpaceHttp, Http: v} }
func MethodExt(v ExtVerb) Method   { return Method{Space: SpaceExt, Ext: v} }

func (m Method) String() string {
	switch m.Space {
	case SpaceHyp:
		return fmt.Sprintf("Hyp<%s>", m.Hyp)
	case SpaceCmd:
		return fmt.Sprintf("Cmd<%s>", m.Cmd)
	case SpaceHttp:
		return fmt.Sprintf("Http<%s>", m.Http)
	case SpaceExt:
		return fmt.Sprintf("Ext<%s>", m.Ext)
	default:
		return "?method?"
	}
}

// IsHyp reports whether m is the hop/transport control verb v.
func (m Method) IsHyp(v HypVerb) bool {
	return m.Space == SpaceHyp && m.Hyp == v
}
