// SPDX-License-Identifier: MPL-2.0

package run

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromCollectorStateGauge(t *testing.T) {
	t.Parallel()

	c := NewPromCollector()
	c.StateChanged(StateLaunching)
	c.StateChanged(StateRunning)

	expected := `
		# HELP switchrepo_orchestrator_state Current orchestrator state (0=idle 1=launching 2=running 3=shutting-down 4=done)
		# TYPE switchrepo_orchestrator_state gauge
		switchrepo_orchestrator_state 2
	`
	if err := testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "switchrepo_orchestrator_state"); err != nil {
		t.Errorf("state gauge mismatch: %v", err)
	}
}

func TestPromCollectorLaunches(t *testing.T) {
	t.Parallel()

	c := NewPromCollector()
	c.ComponentLaunched("api")
	c.ComponentLaunched("worker")
	c.LaunchFailed("broken")

	expected := `
		# HELP switchrepo_components_launched_total Total number of components launched
		# TYPE switchrepo_components_launched_total counter
		switchrepo_components_launched_total 2
	`
	if err := testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "switchrepo_components_launched_total"); err != nil {
		t.Errorf("launched counter mismatch: %v", err)
	}

	expectedFailures := `
		# HELP switchrepo_component_launch_failures_total Total number of component launch failures
		# TYPE switchrepo_component_launch_failures_total counter
		switchrepo_component_launch_failures_total{component="broken"} 1
	`
	if err := testutil.GatherAndCompare(c.Registry(), strings.NewReader(expectedFailures), "switchrepo_component_launch_failures_total"); err != nil {
		t.Errorf("launch failures mismatch: %v", err)
	}
}

func TestPromCollectorExits(t *testing.T) {
	t.Parallel()

	c := NewPromCollector()
	c.ComponentExited("api", 0)
	c.ComponentExited("api", 0)
	c.ComponentExited("worker", 137)

	expected := `
		# HELP switchrepo_component_exits_total Total number of observed component exits
		# TYPE switchrepo_component_exits_total counter
		switchrepo_component_exits_total{component="api",exit_code="0"} 2
		switchrepo_component_exits_total{component="worker",exit_code="137"} 1
	`
	if err := testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "switchrepo_component_exits_total"); err != nil {
		t.Errorf("exit counter mismatch: %v", err)
	}
}

func TestPromCollectorHandlerServesMetrics(t *testing.T) {
	t.Parallel()

	c := NewPromCollector()
	c.ComponentLaunched("api")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "switchrepo_components_launched_total 1") {
		t.Errorf("body missing launched counter:\n%s", rec.Body.String())
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateLaunching, "launching"},
		{StateRunning, "running"},
		{StateShuttingDown, "shutting-down"},
		{StateDone, "done"},
		{State(99), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("State(%d).String() = %q, want %q", tc.state, got, tc.want)
		}
	}
}
