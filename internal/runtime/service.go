// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"

	"github.com/arifsetyawan/switch-repo-experiment/pkg/topology"
)

// ServiceRunner launches service components. A service maps one-to-one
// onto a single shell invocation: its start command, run in its location,
// under the composed environment.
type ServiceRunner struct {
	exec *Executor
}

// NewServiceRunner creates a ServiceRunner spawning through exec.
func NewServiceRunner(exec *Executor) *ServiceRunner {
	return &ServiceRunner{exec: exec}
}

// Kind returns topology.KindService.
func (r *ServiceRunner) Kind() topology.Kind { return topology.KindService }

// Launch starts the service's start command and returns its process
// handle unchanged.
func (r *ServiceRunner) Launch(ctx context.Context, lc *LaunchContext) (Handle, error) {
	proc, err := r.exec.Start(ctx, Command{
		Component: lc.Name,
		Script:    lc.Component.Start,
		Dir:       lc.Component.Location,
		Env:       lc.Env,
	}, lc.Sink)
	if err != nil {
		return nil, err
	}
	return proc, nil
}
