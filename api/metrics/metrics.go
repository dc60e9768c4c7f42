package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Registerer is an interface for registering prometheus metrics
type Registerer interface {
	prometheus.Registerer
}

// Registry is an interface for prometheus registry
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// NewRegistry creates a new prometheus registry
func NewRegistry() Registry {
	return prometheus.NewRegistry()
}

// MultiGatherer is a prometheus gatherer that can gather metrics from multiple sources
type MultiGatherer interface {
	prometheus.Gatherer

	// Register adds a new gatherer to this multi-gatherer
	Register(string, prometheus.Gatherer) error
}

// multiGatherer implements MultiGatherer
type multiGatherer struct {
	gatherers map[string]prometheus.Gatherer
}

// NewMultiGatherer creates a new multi-gatherer
func NewMultiGatherer() MultiGatherer {
	return &multiGatherer{
		gatherers: make(map[string]prometheus.Gatherer),
	}
}

// Register adds a new gatherer
func (mg *multiGatherer) Register(name string, gatherer prometheus.Gatherer) error {
	mg.gatherers[name] = gatherer
	return nil
}

// Gather implements prometheus.Gatherer
func (mg *multiGatherer) Gather() ([]*dto.MetricFamily, error) {
	var result []*dto.MetricFamily
	for _, g := range mg.gatherers {
		metrics, err := g.Gather()
		if err != nil {
			return nil, err
		}
		result = append(result, metrics...)
	}
	return result, nil
}

// Metrics tracks wave delivery outcomes for a star.
type Metrics interface {
	// Delivered tracks waves this star originated or forwarded that were
	// handed off to a transport or a local handler without error.
	Delivered() prometheus.Counter

	// Reflected tracks reflected waves (Pong/Echo) this star produced.
	Reflected() prometheus.Counter

	// Failed tracks waves that could not be routed or delivered (no
	// route, driver error, transport error).
	Failed() prometheus.Counter
}

// NewMetrics creates a new metrics instance
func NewMetrics(namespace string, registerer prometheus.Registerer) (Metrics, error) {
	m := &metrics{
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waves_delivered",
			Help:      "Number of waves delivered",
		}),
		reflected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waves_reflected",
			Help:      "Number of reflected waves produced",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waves_failed",
			Help:      "Number of waves that failed delivery",
		}),
	}

	if err := registerer.Register(m.delivered); err != nil {
		return nil, err
	}
	if err := registerer.Register(m.reflected); err != nil {
		return nil, err
	}
	if err := registerer.Register(m.failed); err != nil {
		return nil, err
	}

	return m, nil
}

type metrics struct {
	delivered prometheus.Counter
	reflected prometheus.Counter
	failed    prometheus.Counter
}

func (m *metrics) Delivered() prometheus.Counter { return m.delivered }
func (m *metrics) Reflected() prometheus.Counter { return m.reflected }
func (m *metrics) Failed() prometheus.Counter    { return m.failed }
