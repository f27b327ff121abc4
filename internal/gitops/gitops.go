// SPDX-License-Identifier: MPL-2.0

// Package gitops runs git verbs across every repository-backed component
// of a topology. The commands go through the shared executor so their
// output is attributed per component like any other component output.
package gitops

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"

	"github.com/arifsetyawan/switch-repo-experiment/internal/runtime"
	"github.com/arifsetyawan/switch-repo-experiment/pkg/topology"
)

// Workflow runs git commands sequentially in each component location.
// Containers are skipped; they have no repository.
type Workflow struct {
	topo   *topology.Topology
	exec   *runtime.Executor
	logger *log.Logger
	git    string
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithGitBinary overrides the git binary name.
func WithGitBinary(bin string) Option {
	return func(w *Workflow) { w.git = bin }
}

// WithLogger overrides the package default logger.
func WithLogger(logger *log.Logger) Option {
	return func(w *Workflow) { w.logger = logger }
}

// New creates a Workflow over topo spawning through exec.
func New(topo *topology.Topology, exec *runtime.Executor, opts ...Option) *Workflow {
	w := &Workflow{
		topo:   topo,
		exec:   exec,
		logger: log.Default(),
		git:    "git",
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Pull runs `git pull` in every repository.
func (w *Workflow) Pull(ctx context.Context, sink chan<- runtime.Line) error {
	return w.run(ctx, sink, w.git+" pull")
}

// Push runs `git push` in every repository.
func (w *Workflow) Push(ctx context.Context, sink chan<- runtime.Line) error {
	return w.run(ctx, sink, w.git+" push")
}

// Checkout runs `git checkout <branch>` in every repository.
func (w *Workflow) Checkout(ctx context.Context, sink chan<- runtime.Line, branch string) error {
	script, err := w.branchCommand("checkout", branch)
	if err != nil {
		return err
	}
	return w.run(ctx, sink, script)
}

// Merge runs `git merge <branch>` in every repository.
func (w *Workflow) Merge(ctx context.Context, sink chan<- runtime.Line, branch string) error {
	script, err := w.branchCommand("merge", branch)
	if err != nil {
		return err
	}
	return w.run(ctx, sink, script)
}

func (w *Workflow) branchCommand(verb, branch string) (string, error) {
	if branch == "" {
		return "", fmt.Errorf("git %s: a branch name is required", verb)
	}
	quoted, err := syntax.Quote(branch, syntax.LangPOSIX)
	if err != nil {
		return "", fmt.Errorf("git %s: branch name %q cannot be quoted: %w", verb, branch, err)
	}
	return w.git + " " + verb + " " + quoted, nil
}

// run executes script once per repository component, in name order. A
// repository's failure is recorded and the remaining repositories still
// run; the combined error joins every failure. Cancelling ctx terminates
// the command currently running and stops the sweep.
func (w *Workflow) run(ctx context.Context, sink chan<- runtime.Line, script string) error {
	var errs []error

	for _, name := range w.topo.RepoComponents() {
		comp, _ := w.topo.Component(name)

		w.logger.Debug("running git command", "component", name, "cmd", script)
		proc, err := w.exec.Start(ctx, runtime.Command{
			Component: name,
			Script:    script,
			Dir:       comp.Location,
		}, sink)
		if err != nil {
			errs = append(errs, fmt.Errorf("component %q: %w", name, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		stop := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				_ = proc.Terminate()
			case <-stop:
			}
		}()
		res := proc.Wait()
		close(stop)

		if !res.Success() {
			if res.Err != nil {
				errs = append(errs, fmt.Errorf("component %q: %w", name, res.Err))
			} else {
				errs = append(errs, fmt.Errorf("component %q: %s exited with code %d", name, script, res.ExitCode))
			}
		}
		if ctx.Err() != nil {
			errs = append(errs, fmt.Errorf("interrupted: %w", ctx.Err()))
			break
		}
	}

	return errors.Join(errs...)
}
