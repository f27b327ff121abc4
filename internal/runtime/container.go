// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/arifsetyawan/switch-repo-experiment/pkg/topology"
)

// ContainerEngine builds the shell commands the container runner
// executes. Implemented by internal/container engines.
type ContainerEngine interface {
	// ResumeCommand returns a command that starts an existing container
	// by name, exiting nonzero when no such container exists.
	ResumeCommand(container string) (string, error)
	// LogsCommand returns a command that follows the container's log
	// stream indefinitely.
	LogsCommand(container string) (string, error)
}

// ContainerRunner launches container components with a two-phase start:
// resume the named container if it already exists, otherwise create it
// with the component's run command, and only then attach a log follower.
// The returned handle tracks the phase currently running; terminating it
// stops that local process only, never the container itself.
type ContainerRunner struct {
	exec   *Executor
	engine ContainerEngine
	logger *log.Logger
}

// NewContainerRunner creates a ContainerRunner spawning through exec and
// building engine commands with engine. A nil logger falls back to the
// package default.
func NewContainerRunner(exec *Executor, engine ContainerEngine, logger *log.Logger) *ContainerRunner {
	if logger == nil {
		logger = log.Default()
	}
	return &ContainerRunner{exec: exec, engine: engine, logger: logger}
}

// Kind returns topology.KindContainer.
func (r *ContainerRunner) Kind() topology.Kind { return topology.KindContainer }

// Launch starts the resume phase and returns a handle immediately; the
// create fallback and the log attachment run behind it. The log follower
// never starts before the resume-or-create outcome is known.
func (r *ContainerRunner) Launch(ctx context.Context, lc *LaunchContext) (Handle, error) {
	container := lc.Component.Container

	resumeCmd, err := r.engine.ResumeCommand(container)
	if err != nil {
		return nil, fmt.Errorf("component %q: %w", lc.Name, err)
	}

	resume, err := r.exec.Start(ctx, Command{
		Component: lc.Name,
		Script:    resumeCmd,
		Env:       lc.Env,
	}, lc.Sink)
	if err != nil {
		return nil, err
	}

	h := &containerHandle{name: lc.Name, done: make(chan struct{})}
	h.current = resume

	go r.follow(ctx, lc, h, resume)

	return h, nil
}

// follow drives the pipeline after the resume phase has been spawned.
func (r *ContainerRunner) follow(ctx context.Context, lc *LaunchContext, h *containerHandle, resume *Proc) {
	container := lc.Component.Container

	res := resume.Wait()
	if h.terminated() {
		h.finish(Result{ExitCode: res.ExitCode})
		return
	}
	if !res.Success() {
		r.logger.Debug("container resume failed, creating",
			"component", lc.Name, "container", container, "exit", res.ExitCode)

		create, err := r.exec.Start(ctx, Command{
			Component: lc.Name,
			Script:    lc.Component.Run,
			Dir:       lc.Component.Location,
			Env:       lc.Env,
		}, lc.Sink)
		if err != nil {
			h.finish(Result{ExitCode: -1, Err: &ContainerStartError{
				Component:  lc.Name,
				Container:  container,
				ResumeExit: res.ExitCode,
				CreateExit: -1,
				Err:        err,
			}})
			return
		}
		if !h.beginPhase(create) {
			_ = create.Terminate()
			create.Wait()
			h.finish(Result{ExitCode: -1})
			return
		}
		cres := create.Wait()
		if h.terminated() {
			h.finish(Result{ExitCode: cres.ExitCode})
			return
		}
		if !cres.Success() {
			h.finish(Result{ExitCode: cres.ExitCode, Err: &ContainerStartError{
				Component:  lc.Name,
				Container:  container,
				ResumeExit: res.ExitCode,
				CreateExit: cres.ExitCode,
				Err:        cres.Err,
			}})
			return
		}
	}

	logsCmd, err := r.engine.LogsCommand(container)
	if err != nil {
		h.finish(Result{ExitCode: -1, Err: fmt.Errorf("component %q: %w", lc.Name, err)})
		return
	}
	logs, err := r.exec.Start(ctx, Command{
		Component: lc.Name,
		Script:    logsCmd,
		Env:       lc.Env,
	}, lc.Sink)
	if err != nil {
		h.finish(Result{ExitCode: -1, Err: err})
		return
	}
	if !h.beginPhase(logs) {
		_ = logs.Terminate()
		logs.Wait()
		h.finish(Result{ExitCode: -1})
		return
	}

	h.finish(logs.Wait())
}

// containerHandle follows a container component across its phases. The
// process behind it changes as the pipeline advances, so termination is
// routed to whichever phase is live at the time.
type containerHandle struct {
	name string

	mu      sync.Mutex
	current *Proc
	stopped bool

	done   chan struct{}
	result Result
}

// Component returns the component's topology name.
func (h *containerHandle) Component() string { return h.name }

// Done is closed once the pipeline has finished.
func (h *containerHandle) Done() <-chan struct{} { return h.done }

// Result returns the outcome. Valid only after Done is closed.
func (h *containerHandle) Result() Result { return h.result }

// Wait blocks until the pipeline finishes and returns its Result.
func (h *containerHandle) Wait() Result {
	<-h.done
	return h.result
}

// Terminate stops the phase process currently running. When the log
// follower is live this detaches from the container without stopping it;
// stopping the container is left to the operator.
func (h *containerHandle) Terminate() error {
	h.mu.Lock()
	h.stopped = true
	cur := h.current
	h.mu.Unlock()

	if cur == nil {
		return nil
	}
	return cur.Terminate()
}

// terminated reports whether Terminate has been called. The pipeline
// checks it between phases so a stopped handle never advances to the
// next phase.
func (h *containerHandle) terminated() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopped
}

// beginPhase records p as the live phase process. It reports false when
// the handle was terminated first; the caller then owns stopping p.
func (h *containerHandle) beginPhase(p *Proc) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	h.current = p
	return true
}

func (h *containerHandle) finish(res Result) {
	h.mu.Lock()
	h.result = res
	h.current = nil
	h.mu.Unlock()
	close(h.done)
}
