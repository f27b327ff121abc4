// SPDX-License-Identifier: MPL-2.0

package run

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector observes orchestrator progress. Implementations must be safe
// for concurrent use; exits are observed from the waiter goroutine.
type Collector interface {
	// StateChanged fires on every orchestrator state transition.
	StateChanged(s State)
	// ComponentLaunched fires once per successfully launched component.
	ComponentLaunched(name string)
	// LaunchFailed fires once per component that failed to launch.
	LaunchFailed(name string)
	// ComponentExited fires once per launched component when its exit
	// is observed.
	ComponentExited(name string, exitCode int)
}

// NopCollector discards every observation.
type NopCollector struct{}

// StateChanged implements Collector.
func (NopCollector) StateChanged(State) {}

// ComponentLaunched implements Collector.
func (NopCollector) ComponentLaunched(string) {}

// LaunchFailed implements Collector.
func (NopCollector) LaunchFailed(string) {}

// ComponentExited implements Collector.
func (NopCollector) ComponentExited(string, int) {}

// PromCollector exports orchestrator observations as Prometheus metrics
// on its own registry.
type PromCollector struct {
	registry *prometheus.Registry

	state          prometheus.Gauge
	launched       prometheus.Counter
	launchFailures *prometheus.CounterVec
	exits          *prometheus.CounterVec
}

// NewPromCollector creates a PromCollector with every metric registered.
func NewPromCollector() *PromCollector {
	c := &PromCollector{
		registry: prometheus.NewRegistry(),
	}

	c.state = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "switchrepo",
		Name:      "orchestrator_state",
		Help:      "Current orchestrator state (0=idle 1=launching 2=running 3=shutting-down 4=done)",
	})
	c.launched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "switchrepo",
		Name:      "components_launched_total",
		Help:      "Total number of components launched",
	})
	c.launchFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "switchrepo",
		Name:      "component_launch_failures_total",
		Help:      "Total number of component launch failures",
	}, []string{"component"})
	c.exits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "switchrepo",
		Name:      "component_exits_total",
		Help:      "Total number of observed component exits",
	}, []string{"component", "exit_code"})

	c.registry.MustRegister(c.state, c.launched, c.launchFailures, c.exits)
	return c
}

// StateChanged implements Collector.
func (c *PromCollector) StateChanged(s State) {
	c.state.Set(float64(s))
}

// ComponentLaunched implements Collector.
func (c *PromCollector) ComponentLaunched(string) {
	c.launched.Inc()
}

// LaunchFailed implements Collector.
func (c *PromCollector) LaunchFailed(name string) {
	c.launchFailures.WithLabelValues(name).Inc()
}

// ComponentExited implements Collector.
func (c *PromCollector) ComponentExited(name string, exitCode int) {
	c.exits.WithLabelValues(name, strconv.Itoa(exitCode)).Inc()
}

// Registry returns the Prometheus registry for HTTP handler setup.
func (c *PromCollector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler serving the collector's metrics.
func (c *PromCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Compile-time interface compliance checks.
var (
	_ Collector = NopCollector{}
	_ Collector = (*PromCollector)(nil)
)
