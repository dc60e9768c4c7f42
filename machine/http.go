package machine

import (
	"encoding/json"
	"net/http"

	"github.com/starlane-io/starlane/api"
	"github.com/starlane-io/starlane/api/health"
	"github.com/starlane-io/starlane/star"
)

// statusBody is what GET /status returns: the machine's aggregate status
// plus each constituent star's own status, keyed by star key.
type statusBody struct {
	Machine string            `json:"machine"`
	Stars   map[string]string `json:"stars"`
}

// StatusHandler serves GET /status with the machine's current aggregate
// status and a per-star breakdown, wrapped in api.Response.
func (m *Machine) StatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		stars := make(map[string]string, len(m.stars))
		for k, s := range m.stars {
			stars[string(k)] = s.Status().String()
		}
		status := m.status
		m.mu.RUnlock()

		_ = api.WriteSuccess(w, statusBody{Machine: status.String(), Stars: stars})
	}
}

// HealthHandler serves GET /health by calling HealthCheck on every
// registered star and folding the results into one health.Report. A star
// whose HealthCheck call errors is reported unhealthy rather than failing
// the whole response.
func (m *Machine) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		stars := make(map[string]*star.Star, len(m.stars))
		for k, s := range m.stars {
			stars[string(k)] = s
		}
		m.mu.RUnlock()

		checks := make([]health.Check, 0, len(stars))
		healthy := true
		for name, s := range stars {
			res, err := s.HealthCheck(r.Context())
			if err != nil {
				healthy = false
				checks = append(checks, health.Check{Name: name, Healthy: false, Error: err.Error()})
				continue
			}
			rep, ok := res.(health.Report)
			if !ok {
				checks = append(checks, health.Check{Name: name, Healthy: true})
				continue
			}
			if !rep.Healthy {
				healthy = false
			}
			checks = append(checks, health.Check{Name: name, Healthy: rep.Healthy, Details: map[string]interface{}{"checks": rep.Checks}})
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(health.Report{Healthy: healthy, Checks: checks})
	}
}
