package star

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/starlane-io/starlane/config"
	"github.com/starlane-io/starlane/gate"
	"github.com/starlane-io/starlane/kind"
	"github.com/starlane-io/starlane/lane"
	"github.com/starlane-io/starlane/logging"
	"github.com/starlane-io/starlane/pipex"
	"github.com/starlane-io/starlane/point"
	"github.com/starlane-io/starlane/registry"
	"github.com/starlane-io/starlane/surface"
	"github.com/starlane-io/starlane/wave"
)

// meshRegistry locates each particle by its leading segment: "s1:a"
// lives on star s1, "s2:x" on s2. Both stars share one instance, the way
// a real constellation shares one directory.
type meshRegistry struct {
	k kind.Kind
}

func (r meshRegistry) home(p point.Point) (lane.StarKey, error) {
	for _, s := range p.Segments {
		if s.Kind != point.SegRoot {
			return lane.StarKeyOf(s.Name), nil
		}
	}
	return "", fmt.Errorf("no home for %s", p.String())
}

func (r meshRegistry) Record(ctx context.Context, p point.Point) (registry.ParticleRecord, error) {
	home, err := r.home(p)
	if err != nil {
		return registry.ParticleRecord{}, err
	}
	return registry.ParticleRecord{Stub: registry.Stub{Point: p, Kind: r.k}, Location: home}, nil
}
func (r meshRegistry) GetProperties(ctx context.Context, p point.Point) (map[string]registry.Property, error) {
	return nil, nil
}
func (r meshRegistry) Register(ctx context.Context, reg registry.Registration) error { return nil }
func (r meshRegistry) SetLocation(ctx context.Context, rec registry.ParticleRecord) error {
	return nil
}
func (r meshRegistry) Select(ctx context.Context, sel registry.Selector) ([]registry.ParticleRecord, error) {
	return nil, nil
}
func (r meshRegistry) UniqueSrc(ctx context.Context, parent point.Point) (registry.UniqueSrc, error) {
	return nil, nil
}

func newMeshStar(key lane.StarKey) *Star {
	bind := pipex.Bind{Routes: []pipex.Route{{
		Selector: pipex.Selector{Space: wave.SpaceHttp, Verb: "Post", PathPattern: regexp.MustCompile(`^/echo$`)},
		Block:    []pipex.Segment{{Stop: pipex.StopOfCore()}, {Stop: pipex.StopOfReflect()}},
	}}}
	reg := meshRegistry{k: kind.Kind{Base: kind.BaseApp}}
	drivers := registry.DriverTable{kind.BaseApp: fakeAppDriver{bind: bind}}
	s := New(key, config.Local(), logging.NewNoOp(), reg, drivers)
	s.HostedKinds[kind.BaseApp] = true
	return s
}

func TestPingCrossStarOverLane(t *testing.T) {
	s1 := newMeshStar("s1")
	s2 := newMeshStar("s2")

	t1, t2 := gate.NewInProcPair(16)
	s1.AddLane("s2", t1)
	s2.AddLane("s1", t2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s1.Run(ctx)
	go s2.Run(ctx)

	from := mustSurface(t, "s1:a", surface.LayerCore)
	to := mustSurface(t, "s2:x", surface.LayerCore)

	proto := wave.NewPing().WithFrom(from).WithTo(surface.Of(to)).
		WithMethod(wave.MethodHttp(wave.HttpPost)).WithUri("/echo").
		WithBody(wave.SubstanceOfText("across"))

	ch, err := s1.Send(context.Background(), proto)
	require.NoError(t, err)
	require.NotNil(t, ch)

	select {
	case agg := <-ch:
		require.False(t, agg.TimedOut)
		require.Len(t, agg.Reflected, 1)
		pong := agg.Reflected[0]
		require.Equal(t, wave.KindPong, pong.Id.Kind)
		require.True(t, pong.ReflectedBody.IsOk())
		require.Equal(t, "across", pong.ReflectedBody.Body.Text)
	case <-time.After(3 * time.Second):
		t.Fatal("cross-star ping did not resolve")
	}
}
