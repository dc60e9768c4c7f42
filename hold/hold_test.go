package hold

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starlane-io/starlane/lane"
)

func TestPushReportsFirstForDestination(t *testing.T) {
	h := New()
	first := h.Push(lane.StarKey("s1"), lane.NewCloseFrame())
	require.True(t, first)
	second := h.Push(lane.StarKey("s1"), lane.NewCloseFrame())
	require.False(t, second)
}

func TestDrainEmptiesQueue(t *testing.T) {
	h := New()
	h.Push(lane.StarKey("s1"), lane.NewCloseFrame())
	h.Push(lane.StarKey("s1"), lane.NewCloseFrame())

	frames := h.Drain(lane.StarKey("s1"))
	require.Len(t, frames, 2)
	require.Equal(t, 0, h.Len(lane.StarKey("s1")))
}

func TestCapDropsOldest(t *testing.T) {
	h := NewWithCap(2)
	h.Push(lane.StarKey("s1"), lane.Frame{Tid: "1"})
	h.Push(lane.StarKey("s1"), lane.Frame{Tid: "2"})
	h.Push(lane.StarKey("s1"), lane.Frame{Tid: "3"})

	frames := h.Drain(lane.StarKey("s1"))
	require.Len(t, frames, 2)
	require.Equal(t, "2", frames[0].Tid)
	require.Equal(t, "3", frames[1].Tid)
	require.Equal(t, 1, h.Dropped(lane.StarKey("s1")))
}
