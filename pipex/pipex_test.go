package pipex

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starlane-io/starlane/point"
	"github.com/starlane-io/starlane/surface"
	"github.com/starlane-io/starlane/wave"
)

type fakeTransmitter struct {
	coreReply wave.ReflectedCore
	reflected []wave.ReflectedCore
	pointHits map[string]wave.ReflectedCore
}

func (f *fakeTransmitter) ToCore(ctx context.Context, core wave.DirectedCore) (wave.ReflectedCore, error) {
	return f.coreReply, nil
}

func (f *fakeTransmitter) Reflect(ctx context.Context, refl wave.Reflection, core wave.ReflectedCore) error {
	f.reflected = append(f.reflected, core)
	return nil
}

func (f *fakeTransmitter) ToPoint(ctx context.Context, to point.Point, core wave.DirectedCore) (wave.ReflectedCore, error) {
	return f.pointHits[to.String()], nil
}

func mustSurface(t *testing.T, s string) surface.Surface {
	t.Helper()
	p, err := point.Parse(s)
	require.NoError(t, err)
	return surface.Surface{Point: p, Layer: surface.LayerCore}
}

func TestCoreThenReflectPipeline(t *testing.T) {
	ping, err := wave.NewPing().WithFrom(mustSurface(t, "s:a")).WithTo(surface.Of(mustSurface(t, "s:b"))).
		WithMethod(wave.MethodHttp(wave.HttpPost)).WithUri("/echo").
		WithBody(wave.SubstanceOfText("hi")).Build()
	require.NoError(t, err)

	bind := Bind{Routes: []Route{{
		Selector: Selector{Space: wave.SpaceHttp, Verb: "Post", PathPattern: regexp.MustCompile(`^/echo$`)},
		Block:    []Segment{{Stop: StopOfCore()}, {Stop: StopOfReflect()}},
	}}}

	fake := &fakeTransmitter{coreReply: wave.NewOkBodyCore(wave.SubstanceOfText("hi"))}
	err = RunField(context.Background(), bind, ping, fake, fake)
	require.NoError(t, err)
	require.Len(t, fake.reflected, 1)
	require.True(t, fake.reflected[0].IsOk())
}

func TestEmptyPipelineReflectsOkEmpty(t *testing.T) {
	ping, err := wave.NewPing().WithFrom(mustSurface(t, "s:a")).WithTo(surface.Of(mustSurface(t, "s:b"))).
		WithMethod(wave.MethodHttp(wave.HttpGet)).WithUri("/noop").Build()
	require.NoError(t, err)

	bind := Bind{Routes: []Route{{
		Selector: Selector{Space: wave.SpaceHttp, Verb: "Get", PathPattern: regexp.MustCompile(`^/noop$`)},
		Block:    nil,
	}}}

	fake := &fakeTransmitter{}
	err = RunField(context.Background(), bind, ping, fake, fake)
	require.NoError(t, err)
	require.Len(t, fake.reflected, 1)
	require.Equal(t, 200, fake.reflected[0].Status)
	require.True(t, fake.reflected[0].Body.IsEmpty())
}

func TestNoRouteMatchReturns404(t *testing.T) {
	ping, err := wave.NewPing().WithFrom(mustSurface(t, "s:a")).WithTo(surface.Of(mustSurface(t, "s:b"))).
		WithMethod(wave.MethodHttp(wave.HttpPost)).WithUri("/none").Build()
	require.NoError(t, err)

	fake := &fakeTransmitter{}
	err = RunField(context.Background(), Bind{}, ping, fake, fake)
	require.NoError(t, err)
	require.Len(t, fake.reflected, 1)
	require.Equal(t, 404, fake.reflected[0].Status)
}

func TestImplicitCoreReflectForUnmatchedCmd(t *testing.T) {
	ping, err := wave.NewPing().WithFrom(mustSurface(t, "s:a")).WithTo(surface.Of(mustSurface(t, "s:b"))).
		WithMethod(wave.MethodCmd(wave.CmdRead)).Build()
	require.NoError(t, err)

	fake := &fakeTransmitter{coreReply: wave.NewOkCore()}
	err = RunField(context.Background(), Bind{}, ping, fake, fake)
	require.NoError(t, err)
	require.Len(t, fake.reflected, 1)
	require.True(t, fake.reflected[0].IsOk())
}
