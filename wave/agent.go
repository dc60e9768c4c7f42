package wave

import "github.com/starlane-io/starlane/point"

// AgentKind distinguishes an anonymous caller from an authenticated point.
type AgentKind uint8

const (
	AgentAnonymous AgentKind = iota
	AgentHyperUser
	AgentPoint
)

// Agent identifies who is acting through a wave: the anonymous agent, the
// privileged mesh operator, or a concrete authenticated Point.
type Agent struct {
	Kind  AgentKind
	Point point.Point
}

func AgentOfAnonymous() Agent  { return Agent{Kind: AgentAnonymous} }
func AgentOfHyperUser() Agent  { return Agent{Kind: AgentHyperUser} }
func AgentOfPoint(p point.Point) Agent {
	return Agent{Kind: AgentPoint, Point: p}
}

// ToPoint resolves the Agent to the Point it acts as, for default-agent
// and HyperUser agents this is a well-known sentinel point.
func (a Agent) ToPoint() point.Point {
	switch a.Kind {
	case AgentPoint:
		return a.Point
	case AgentHyperUser:
		return hyperUserPoint
	default:
		return anonymousPoint
	}
}

var (
	anonymousPoint = mustParse("ANONYMOUS")
	hyperUserPoint = mustParse("HYPERUSER")
)

func mustParse(s string) point.Point {
	p, err := point.Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}
