// SPDX-License-Identifier: MPL-2.0

package runtime

import "fmt"

// SpawnError reports that a command never started. It is distinct from a
// nonzero exit: the shell process could not be created at all, so there is
// no exit code to report.
type SpawnError struct {
	// Component is the topology name the command was launched for.
	Component string
	// Script is the command that failed to start.
	Script string
	// Err is the underlying error from process creation.
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("component %q: spawn %q: %v", e.Component, e.Script, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ContainerStartError reports that a container could not be brought up:
// neither resuming the existing container nor creating a fresh one
// succeeded.
type ContainerStartError struct {
	// Component is the topology name of the container component.
	Component string
	// Container is the engine-side container name.
	Container string
	// ResumeExit is the exit code of the resume attempt.
	ResumeExit int
	// CreateExit is the exit code of the create attempt, or -1 when the
	// create command never ran.
	CreateExit int
	// Err carries the create failure when one is available.
	Err error
}

func (e *ContainerStartError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("component %q: container %q failed to start (resume exited %d): %v",
			e.Component, e.Container, e.ResumeExit, e.Err)
	}
	return fmt.Sprintf("component %q: container %q failed to start (resume exited %d, create exited %d)",
		e.Component, e.Container, e.ResumeExit, e.CreateExit)
}

func (e *ContainerStartError) Unwrap() error { return e.Err }
