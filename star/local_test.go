package star

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/starlane-io/starlane/config"
	"github.com/starlane-io/starlane/kind"
	"github.com/starlane-io/starlane/lane"
	"github.com/starlane-io/starlane/logging"
	"github.com/starlane-io/starlane/pipex"
	"github.com/starlane-io/starlane/point"
	"github.com/starlane-io/starlane/registry"
	"github.com/starlane-io/starlane/surface"
	"github.com/starlane-io/starlane/wave"
)

// fakeRegistry answers every Record lookup as hosted on the given star.
type fakeRegistry struct {
	self lane.StarKey
	k    kind.Kind
}

func (r fakeRegistry) Record(ctx context.Context, p point.Point) (registry.ParticleRecord, error) {
	return registry.ParticleRecord{Stub: registry.Stub{Point: p, Kind: r.k}, Location: r.self}, nil
}
func (r fakeRegistry) GetProperties(ctx context.Context, p point.Point) (map[string]registry.Property, error) {
	return nil, nil
}
func (r fakeRegistry) Register(ctx context.Context, reg registry.Registration) error { return nil }
func (r fakeRegistry) SetLocation(ctx context.Context, rec registry.ParticleRecord) error {
	return nil
}
func (r fakeRegistry) Select(ctx context.Context, sel registry.Selector) ([]registry.ParticleRecord, error) {
	return nil, nil
}
func (r fakeRegistry) UniqueSrc(ctx context.Context, parent point.Point) (registry.UniqueSrc, error) {
	return nil, nil
}

// echoHandler replies with whatever body it was sent.
type echoHandler struct{}

func (echoHandler) Handle(ctx context.Context, core wave.DirectedCore) (wave.ReflectedCore, error) {
	return wave.NewOkBodyCore(core.Body), nil
}

type fakeAppDriver struct{ bind pipex.Bind }

func (d fakeAppDriver) Bind(ctx context.Context, p point.Point) (pipex.Bind, error) {
	return d.bind, nil
}
func (d fakeAppDriver) Item(ctx context.Context, p point.Point) (registry.ItemSphere, error) {
	return registry.ItemSphere{Handler: echoHandler{}}, nil
}

func mustSurface(t *testing.T, s string, layer surface.Layer) surface.Surface {
	t.Helper()
	p, err := point.Parse(s)
	require.NoError(t, err)
	return surface.Surface{Point: p, Layer: layer}
}

func newTestStar(self lane.StarKey) *Star {
	bind := pipex.Bind{Routes: []pipex.Route{{
		Selector: pipex.Selector{Space: wave.SpaceHttp, Verb: "Post", PathPattern: regexp.MustCompile(`^/echo$`)},
		Block:    []pipex.Segment{{Stop: pipex.StopOfCore()}, {Stop: pipex.StopOfReflect()}},
	}}}
	reg := fakeRegistry{self: self, k: kind.Kind{Base: kind.BaseApp}}
	drivers := registry.DriverTable{kind.BaseApp: fakeAppDriver{bind: bind}}
	s := New(self, config.Default(), logging.NewNoOp(), reg, drivers)
	s.HostedKinds[kind.BaseApp] = true
	return s
}

func TestDeliverPingSameStarEchoesBody(t *testing.T) {
	s := newTestStar(lane.StarKeyOf("s"))

	from := mustSurface(t, "s:a", surface.LayerCore)
	to := mustSurface(t, "s:b", surface.LayerCore)

	proto := wave.NewPing().WithFrom(from).WithTo(surface.Of(to)).
		WithMethod(wave.MethodHttp(wave.HttpPost)).WithUri("/echo").
		WithBody(wave.SubstanceOfText("hi"))

	ch, err := s.Send(context.Background(), proto)
	require.NoError(t, err)
	require.NotNil(t, ch)

	select {
	case agg := <-ch:
		require.False(t, agg.TimedOut)
		require.Len(t, agg.Reflected, 1)
		require.True(t, agg.Reflected[0].ReflectedBody.IsOk())
		require.Equal(t, "hi", agg.Reflected[0].ReflectedBody.Body.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("ping did not resolve")
	}
}

func TestDeliverNoRouteReflects404(t *testing.T) {
	s := newTestStar(lane.StarKeyOf("s"))

	from := mustSurface(t, "s:a", surface.LayerCore)
	to := mustSurface(t, "s:b", surface.LayerCore)

	proto := wave.NewPing().WithFrom(from).WithTo(surface.Of(to)).
		WithMethod(wave.MethodHttp(wave.HttpPost)).WithUri("/missing")

	ch, err := s.Send(context.Background(), proto)
	require.NoError(t, err)

	select {
	case agg := <-ch:
		require.Len(t, agg.Reflected, 1)
		require.Equal(t, 404, agg.Reflected[0].ReflectedBody.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("ping did not resolve")
	}
}
