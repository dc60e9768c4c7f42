package star

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starlane-io/starlane/api/health"
)

func checkByName(t *testing.T, rep health.Report, name string) health.Check {
	t.Helper()
	for _, c := range rep.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no %q check in report", name)
	return health.Check{}
}

func TestHealthCheckFlagsExcessiveDropRate(t *testing.T) {
	s := newTestStar("s")
	s.Relaying = false
	s.Config.Health.MaxDropRate = 0.25

	for i := 0; i < 3; i++ {
		s.countDelivered()
	}
	s.countFailed()
	s.countFailed()

	res, err := s.HealthCheck(context.Background())
	require.NoError(t, err)
	rep := res.(health.Report)

	require.False(t, rep.Healthy)
	require.False(t, checkByName(t, rep, "drop_rate").Healthy)
}

func TestHealthCheckHealthyUnderThresholds(t *testing.T) {
	s := newTestStar("s")
	s.Relaying = false

	for i := 0; i < 10; i++ {
		s.countDelivered()
	}
	s.countFailed()

	res, err := s.HealthCheck(context.Background())
	require.NoError(t, err)
	rep := res.(health.Report)

	require.True(t, rep.Healthy)
	require.True(t, checkByName(t, rep, "drop_rate").Healthy)
	require.True(t, checkByName(t, rep, "outstanding_requests").Healthy)
}
