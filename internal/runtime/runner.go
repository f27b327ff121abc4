// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"

	"github.com/arifsetyawan/switch-repo-experiment/pkg/topology"
)

type (
	// LaunchContext carries everything a Runner needs to bring one
	// component up.
	LaunchContext struct {
		// Name is the component's topology name.
		Name string
		// Component is the component definition.
		Component topology.Component
		// Env is the composed environment in KEY=VALUE form. Nil
		// inherits the ambient environment.
		Env []string
		// Sink receives the component's attributed output lines. It
		// must be drained until the returned Handle is done.
		Sink chan<- Line
	}

	// Handle follows one launched component until it stops. Exactly one
	// of two things finishes a handle: the underlying work exits on its
	// own, or Terminate forces it down. Done is closed either way.
	Handle interface {
		// Component returns the component's topology name.
		Component() string
		// Done is closed once the component has stopped.
		Done() <-chan struct{}
		// Result returns the outcome. Valid only after Done is closed.
		Result() Result
		// Wait blocks until the component stops and returns its Result.
		Wait() Result
		// Terminate requests that the component stop. Best effort; an
		// error means the request could not be delivered.
		Terminate() error
	}

	// Runner launches components of a single kind.
	Runner interface {
		// Kind returns the component kind this runner handles.
		Kind() topology.Kind
		// Launch starts the component and returns a handle following
		// it. A non-nil error means nothing is running.
		Launch(ctx context.Context, lc *LaunchContext) (Handle, error)
	}

	// Registry resolves the Runner for a component kind.
	Registry struct {
		runners map[topology.Kind]Runner
	}
)

// NewRegistry creates a registry holding the given runners.
func NewRegistry(runners ...Runner) *Registry {
	r := &Registry{runners: make(map[topology.Kind]Runner, len(runners))}
	for _, rn := range runners {
		r.Register(rn)
	}
	return r
}

// Register adds a runner, replacing any previous runner for its kind.
func (r *Registry) Register(rn Runner) {
	r.runners[rn.Kind()] = rn
}

// Get returns the runner for a kind.
func (r *Registry) Get(kind topology.Kind) (Runner, error) {
	rn, ok := r.runners[kind]
	if !ok {
		return nil, fmt.Errorf("no runner registered for component kind %q", kind)
	}
	return rn, nil
}

// Kinds lists the kinds with a registered runner.
func (r *Registry) Kinds() []topology.Kind {
	kinds := make([]topology.Kind, 0, len(r.runners))
	for k := range r.runners {
		kinds = append(kinds, k)
	}
	return kinds
}
