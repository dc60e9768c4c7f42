package point_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starlane-io/starlane/point"
)

func TestParseStringRoundTrip(t *testing.T) {
	cases := []string{
		"apps:my-app:/files/index.html",
		"apps",
		"apps:my-app",
		"my-domain.com::apps:my-app:/files/index.html",
		"GLOBAL::apps",
		"[edge]::apps:my-app",
		"STAR(s1)::apps",
	}
	for _, c := range cases {
		p, err := point.Parse(c)
		require.NoError(t, err, c)
		require.Equal(t, c, p.String())

		p2, err := point.Parse(p.String())
		require.NoError(t, err)
		require.Equal(t, p, p2)
	}
}

func TestFilesystemOrderingInvariant(t *testing.T) {
	// Dir/File may only appear after FsRoot.
	bad := point.Point{Segments: []point.Segment{
		{Kind: point.SegRoot},
		{Kind: point.SegDir, Name: "files"},
	}}
	require.ErrorIs(t, bad.Validate(), point.ErrFilesystemOrder)
}

func TestFileMustBeTerminal(t *testing.T) {
	bad := point.Point{Segments: []point.Segment{
		{Kind: point.SegRoot},
		{Kind: point.SegFsRoot},
		{Kind: point.SegFile, Name: "index.html"},
		{Kind: point.SegDir, Name: "oops"},
	}}
	require.ErrorIs(t, bad.Validate(), point.ErrFileNotTerminal)
}

func TestResolveVariableAndContext(t *testing.T) {
	working, err := point.Parse("apps:my-app")
	require.NoError(t, err)

	p, err := point.Parse("apps:${name}")
	require.NoError(t, err)

	resolved, err := p.Resolve(point.Env{Working: working, Vars: map[string]string{"name": "my-app"}})
	require.NoError(t, err)
	require.Equal(t, "apps:my-app", resolved.String())
	require.False(t, resolved.HasUnresolved())
}

func TestResolveUnboundVariable(t *testing.T) {
	p, err := point.Parse("apps:${missing}")
	require.NoError(t, err)
	_, err = p.Resolve(point.Env{})
	require.ErrorIs(t, err, point.ErrUnresolvedVar)
}

func TestResolvePop(t *testing.T) {
	working, err := point.Parse("apps:my-app:v1")
	require.NoError(t, err)

	p, err := point.Parse(".:..:v2")
	require.NoError(t, err)

	resolved, err := p.Resolve(point.Env{Working: working})
	require.NoError(t, err)
	require.Equal(t, "apps:my-app:v2", resolved.String())
}

func TestResolvePopUnderflow(t *testing.T) {
	p, err := point.Parse("..")
	require.NoError(t, err)
	_, err = p.Resolve(point.Env{})
	require.ErrorIs(t, err, point.ErrPopUnderflow)
}

func TestIsRoot(t *testing.T) {
	p, err := point.Parse("")
	require.NoError(t, err)
	require.True(t, p.IsRoot())

	p2, err := point.Parse("apps")
	require.NoError(t, err)
	require.False(t, p2.IsRoot())
}
