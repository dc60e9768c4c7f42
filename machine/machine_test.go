package machine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/starlane-io/starlane/config"
	"github.com/starlane-io/starlane/kind"
	"github.com/starlane-io/starlane/lane"
	"github.com/starlane-io/starlane/logging"
	"github.com/starlane-io/starlane/point"
	"github.com/starlane-io/starlane/registry"
	"github.com/starlane-io/starlane/star"
)

var errNoRecord = errors.New("no record")

type noopRegistry struct{}

func (noopRegistry) Record(ctx context.Context, p point.Point) (registry.ParticleRecord, error) {
	return registry.ParticleRecord{}, errNoRecord
}
func (noopRegistry) GetProperties(ctx context.Context, p point.Point) (map[string]registry.Property, error) {
	return nil, nil
}
func (noopRegistry) Register(ctx context.Context, reg registry.Registration) error { return nil }
func (noopRegistry) SetLocation(ctx context.Context, rec registry.ParticleRecord) error {
	return nil
}
func (noopRegistry) Select(ctx context.Context, sel registry.Selector) ([]registry.ParticleRecord, error) {
	return nil, nil
}
func (noopRegistry) UniqueSrc(ctx context.Context, parent point.Point) (registry.UniqueSrc, error) {
	return nil, nil
}

func newTestStar(key lane.StarKey) *star.Star {
	return star.New(key, config.Default(), logging.NewNoOp(), noopRegistry{}, registry.DriverTable{kind.BaseApp: nil})
}

func TestAggregateReadyRequiresAllStarsReady(t *testing.T) {
	require.Equal(t, StatusPending, Aggregate(nil))
	require.Equal(t, StatusInit, Aggregate([]star.Status{star.StatusReady, star.StatusInit}))
	require.Equal(t, StatusReady, Aggregate([]star.Status{star.StatusReady, star.StatusReady}))
	require.Equal(t, StatusPanic, Aggregate([]star.Status{star.StatusReady, star.StatusPanic}))
	require.Equal(t, StatusFatal, Aggregate([]star.Status{star.StatusFatal, star.StatusPanic, star.StatusReady}))
}

func TestMachinePublishesRollupAsStarsBoot(t *testing.T) {
	a := newTestStar(lane.StarKeyOf("a"))
	b := newTestStar(lane.StarKeyOf("b"))

	m := New(logging.NewNoOp())
	m.Add(a)
	m.Add(b)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.Run(ctx)
	go b.Run(ctx)
	go m.Run(ctx)

	require.Eventually(t, func() bool {
		return m.Status() == StatusReady
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMachineTerminateDrivesStarsToFatal(t *testing.T) {
	a := newTestStar(lane.StarKeyOf("a"))

	m := New(logging.NewNoOp())
	m.Add(a)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.Run(ctx)
	go m.Run(ctx)

	require.Eventually(t, func() bool { return m.Status() == StatusReady }, 2*time.Second, 10*time.Millisecond)

	m.Terminate()

	awaitCtx, awaitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer awaitCancel()
	require.NoError(t, m.AwaitTermination(awaitCtx))
	require.Equal(t, star.StatusFatal, a.Status())
}
