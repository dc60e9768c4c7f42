package star

import (
	"context"
	"time"

	"github.com/starlane-io/starlane/api/health"
)

// HealthCheck implements health.Checker: it evaluates this star's
// tracker/exchanger load and lane count against config.HealthConfig and
// folds the result into the star's own lifecycle status, demoting Ready
// to Panic when thresholds are exceeded and promoting back once the
// load subsides (monotonicity still forbids falling below Init; see
// Status.CanTransitionTo).
func (s *Star) HealthCheck(ctx context.Context) (interface{}, error) {
	start := time.Now()
	cfg := s.Config.Health

	outstanding := s.Trackers.Len() + s.Exchange.Len()
	overloaded := cfg.MaxOutstandingRequests > 0 && outstanding > cfg.MaxOutstandingRequests

	delivered := s.deliveredCount.Get()
	failed := s.failedCount.Get()
	dropRate := 0.0
	if total := delivered + failed; total > 0 {
		dropRate = float64(failed) / float64(total)
	}
	dropping := cfg.MaxDropRate > 0 && dropRate > cfg.MaxDropRate

	checks := []health.Check{
		{
			Name:    "outstanding_requests",
			Healthy: !overloaded,
			Details: map[string]interface{}{"outstanding": outstanding, "max": cfg.MaxOutstandingRequests},
		},
		{
			Name:    "drop_rate",
			Healthy: !dropping,
			Details: map[string]interface{}{"rate": dropRate, "max": cfg.MaxDropRate, "delivered": delivered, "failed": failed},
		},
		{
			Name:    "lanes",
			Healthy: s.Lanes.Len() > 0 || !s.Relaying,
			Details: map[string]interface{}{"count": s.Lanes.Len()},
		},
	}

	healthy := true
	for _, c := range checks {
		if !c.Healthy {
			healthy = false
		}
	}

	if healthy {
		if s.Status() == StatusPanic {
			s.setStatus(StatusReady)
		}
	} else if s.Status() == StatusReady {
		s.setStatus(StatusPanic)
	}

	return health.Report{
		Healthy:  healthy,
		Checks:   checks,
		Duration: time.Since(start),
	}, nil
}
