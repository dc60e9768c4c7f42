package lane

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeTransport struct{}

func (fakeTransport) Send(ctx context.Context, f Frame) error      { return nil }
func (fakeTransport) Recv(ctx context.Context) (Frame, error)      { return Frame{}, nil }
func (fakeTransport) Close() error                                  { return nil }

func TestPathTableLRUEviction(t *testing.T) {
	pt := NewPathTableWithCap(2)
	pt.Record(StarKey("a"), 1)
	pt.Record(StarKey("b"), 2)
	pt.Record(StarKey("c"), 3) // evicts "a", the least-recently-touched

	_, ok := pt.HopsTo(StarKey("a"))
	require.False(t, ok)
	hops, ok := pt.HopsTo(StarKey("c"))
	require.True(t, ok)
	require.Equal(t, 3, hops)
}

func TestPathTableTouchPreventsEviction(t *testing.T) {
	pt := NewPathTableWithCap(2)
	pt.Record(StarKey("a"), 1)
	pt.Record(StarKey("b"), 2)
	pt.HopsTo(StarKey("a")) // touch a, making b the least-recently-touched
	pt.Record(StarKey("c"), 3)

	_, ok := pt.HopsTo(StarKey("b"))
	require.False(t, ok)
	_, ok = pt.HopsTo(StarKey("a"))
	require.True(t, ok)
}

func TestPathTableRecordKeepsMinimum(t *testing.T) {
	pt := NewPathTable()
	pt.Record(StarKey("s"), 5)
	pt.Record(StarKey("s"), 9) // worse report, must not overwrite the minimum

	hops, ok := pt.HopsTo(StarKey("s"))
	require.True(t, ok)
	require.Equal(t, 5, hops)

	pt.Record(StarKey("s"), 2) // better report, must win
	hops, ok = pt.HopsTo(StarKey("s"))
	require.True(t, ok)
	require.Equal(t, 2, hops)
}

func TestRegistryBestForPicksMinHopsStableTie(t *testing.T) {
	reg := NewRegistry()
	proto1 := &ProtoLane{Transport: fakeTransport{}}
	reg.AddProto(proto1)
	l1, err := reg.ConfirmProto(proto1, StarKey("n1"))
	require.NoError(t, err)

	proto2 := &ProtoLane{Transport: fakeTransport{}}
	reg.AddProto(proto2)
	l2, err := reg.ConfirmProto(proto2, StarKey("n2"))
	require.NoError(t, err)

	l1.Paths.Record(StarKey("dest"), 3)
	l2.Paths.Record(StarKey("dest"), 3)

	best, hops, ok := reg.BestFor(StarKey("dest"))
	require.True(t, ok)
	require.Equal(t, 3, hops)
	require.Equal(t, l1, best) // l1 registered first, wins the tie
}

func TestRegistryBestForNoKnowledge(t *testing.T) {
	reg := NewRegistry()
	_, _, ok := reg.BestFor(StarKey("nowhere"))
	require.False(t, ok)
}
