package kind

import (
	"testing"

	"github.com/starlane-io/starlane/surface"
	"github.com/stretchr/testify/require"
)

func TestPlanForDefault(t *testing.T) {
	p := PlanFor(Kind{Base: BaseApp})
	require.Equal(t, []surface.Layer{surface.LayerField, surface.LayerShell, surface.LayerCore}, p.Layers(DirectionDirected))
	require.Equal(t, []surface.Layer{surface.LayerCore, surface.LayerShell, surface.LayerField, surface.LayerGravity}, p.Layers(DirectionReflected))
}

func TestPlanForMechtronInsertsGuest(t *testing.T) {
	p := PlanFor(Kind{Base: BaseMechtron})
	directed := p.Layers(DirectionDirected)
	require.Contains(t, directed, surface.LayerGuest)
	require.Equal(t, surface.LayerCore, directed[len(directed)-1])
}

func TestKindString(t *testing.T) {
	k := Kind{
		Base: BaseFile,
		Sub:  SubKind{Set: true, Name: "Dir"},
		Specific: Specific{
			Set: true, Provider: "starlane.io", Vendor: "starlane",
			Product: "filesystem", Variant: "default", Version: "1.0.0",
		},
	}
	require.Equal(t, "File<Dir>[starlane.io:starlane:filesystem:default:1.0.0]", k.String())
}
