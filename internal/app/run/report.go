// SPDX-License-Identifier: MPL-2.0

package run

import (
	"errors"

	"github.com/arifsetyawan/switch-repo-experiment/internal/runtime"
	"github.com/arifsetyawan/switch-repo-experiment/pkg/topology"
)

type (
	// ComponentResult is the recorded outcome of one execution entry.
	ComponentResult struct {
		// Name is the component's topology name.
		Name string
		// Kind is the component kind.
		Kind topology.Kind
		// Skipped is true for entries that never launched: library
		// components, and entries dispatched after an interrupt arrived.
		Skipped bool
		// LaunchErr is set when the component failed to launch.
		LaunchErr error
		// Result is the process outcome of a launched component.
		Result runtime.Result
	}

	// Report is the outcome of one orchestration run, with one entry per
	// execution-list item, in execution order.
	Report struct {
		// RunID identifies the run in logs and metrics.
		RunID string
		// Interrupted is true when the run ended via operator interrupt
		// rather than natural completion.
		Interrupted bool
		// Components holds the per-entry outcomes.
		Components []ComponentResult
	}
)

// Launched reports whether the component actually started.
func (c ComponentResult) Launched() bool {
	return !c.Skipped && c.LaunchErr == nil
}

// FailedToLaunch reports whether the component never came up: the launch
// call failed outright, or a container failed both its resume and create
// phases after the handle was issued.
func (c ComponentResult) FailedToLaunch() bool {
	if c.LaunchErr != nil {
		return true
	}
	var startErr *runtime.ContainerStartError
	return errors.As(c.Result.Err, &startErr)
}

// LaunchFailures returns the entries that failed to launch.
func (r *Report) LaunchFailures() []ComponentResult {
	var failed []ComponentResult
	for _, c := range r.Components {
		if c.FailedToLaunch() {
			failed = append(failed, c)
		}
	}
	return failed
}

// Failed reports whether any component failed to launch. Nonzero exits
// of launched components are observations, not run failures.
func (r *Report) Failed() bool {
	return len(r.LaunchFailures()) > 0
}
