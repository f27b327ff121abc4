// SPDX-License-Identifier: MPL-2.0

package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/arifsetyawan/switch-repo-experiment/internal/runtime"
	"github.com/arifsetyawan/switch-repo-experiment/pkg/topology"
)

// ErrAlreadyRan is returned when Run is called twice on one Orchestrator.
var ErrAlreadyRan = errors.New("orchestrator already ran; create a new one per run")

type (
	// Orchestrator launches the components of one topology and owns
	// every resulting handle until the run settles. It is single-use.
	Orchestrator struct {
		topo    *topology.Topology
		reg     *runtime.Registry
		logger  *log.Logger
		metrics Collector
		out     io.Writer
		runID   string

		state atomic.Int32
		ran   atomic.Bool
	}

	// Option configures an Orchestrator.
	Option func(*Orchestrator)

	// launched pairs a live handle with its report slot.
	launched struct {
		idx    int
		handle runtime.Handle
	}
)

// WithLogger overrides the package default logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithCollector installs a metrics collector.
func WithCollector(c Collector) Option {
	return func(o *Orchestrator) { o.metrics = c }
}

// WithOutput redirects the attributed component output, which goes to
// stdout by default.
func WithOutput(w io.Writer) Option {
	return func(o *Orchestrator) { o.out = w }
}

// New creates an Orchestrator for one run over topo, dispatching through
// the runners registered in reg.
func New(topo *topology.Topology, reg *runtime.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		topo:    topo,
		reg:     reg,
		logger:  log.Default(),
		metrics: NopCollector{},
		out:     os.Stdout,
		runID:   uuid.NewString(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunID identifies this run in logs and metrics.
func (o *Orchestrator) RunID() string { return o.runID }

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

func (o *Orchestrator) setState(s State) {
	o.state.Store(int32(s))
	o.metrics.StateChanged(s)
	o.logger.Debug("orchestrator state changed", "run_id", o.runID, "state", s.String())
}

// Run drives the topology's execution list to completion. Components are
// dispatched in declared order and run concurrently; the run settles when
// every launched component has exited, or when ctx is cancelled, in which
// case every live handle is terminated best-effort first. Individual
// launch failures and nonzero exits are recorded in the Report, never
// escalated. The returned error only reports misuse.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	if !o.ran.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRan
	}

	report := &Report{RunID: o.runID}

	lines := make(chan runtime.Line)
	printer := runtime.NewPrinter(o.out, o.topo.Executions...)
	printerDone := make(chan struct{})
	go func() {
		defer close(printerDone)
		printer.Drain(lines)
	}()

	o.setState(StateLaunching)
	handles := o.dispatch(ctx, report, lines)
	o.setState(StateRunning)

	// Exits are observed in execution order even though the underlying
	// processes finish in any order.
	allDone := make(chan struct{})
	go func() {
		defer close(allDone)
		for _, l := range handles {
			res := l.handle.Wait()
			report.Components[l.idx].Result = res
			o.metrics.ComponentExited(l.handle.Component(), res.ExitCode)
			o.logger.Info("component stopped",
				"run_id", o.runID, "component", l.handle.Component(), "exit_code", res.ExitCode)
		}
	}()

	interrupted := false
	select {
	case <-allDone:
	case <-ctx.Done():
		interrupted = true
	}

	o.setState(StateShuttingDown)
	if interrupted {
		o.logger.Info("interrupt received, stopping all components", "run_id", o.runID)
		for _, l := range handles {
			if err := l.handle.Terminate(); err != nil {
				o.logger.Warn("failed to terminate component",
					"run_id", o.runID, "component", l.handle.Component(), "err", err)
			}
		}
		<-allDone
	}
	report.Interrupted = interrupted

	close(lines)
	<-printerDone

	o.setState(StateDone)
	return report, nil
}

// dispatch launches every execution entry in order and returns the live
// handles. Library entries are skipped, launch failures are recorded and
// isolated, and entries reached after ctx is cancelled are never
// launched.
func (o *Orchestrator) dispatch(ctx context.Context, report *Report, sink chan<- runtime.Line) []launched {
	var handles []launched

	for _, name := range o.topo.Executions {
		cr := ComponentResult{Name: name}

		comp, ok := o.topo.Component(name)
		if !ok {
			cr.LaunchErr = fmt.Errorf("unknown component %q", name)
			o.metrics.LaunchFailed(name)
			report.Components = append(report.Components, cr)
			continue
		}
		cr.Kind = comp.Type

		if ctx.Err() != nil {
			cr.Skipped = true
			o.logger.Debug("interrupt before dispatch, not launching", "component", name)
			report.Components = append(report.Components, cr)
			continue
		}

		if comp.Type == topology.KindLibrary {
			cr.Skipped = true
			o.logger.Debug("skipping library entry", "component", name)
			report.Components = append(report.Components, cr)
			continue
		}

		runner, err := o.reg.Get(comp.Type)
		if err != nil {
			cr.LaunchErr = err
			o.metrics.LaunchFailed(name)
			o.logger.Error("component failed to launch", "component", name, "err", err)
			report.Components = append(report.Components, cr)
			continue
		}

		env := runtime.ComposeEnv(os.Environ(), o.topo.Environments.General, o.topo.ServiceEnv(name))
		h, err := runner.Launch(ctx, &runtime.LaunchContext{
			Name:      name,
			Component: comp,
			Env:       env,
			Sink:      sink,
		})
		if err != nil {
			cr.LaunchErr = err
			o.metrics.LaunchFailed(name)
			o.logger.Error("component failed to launch", "component", name, "err", err)
			report.Components = append(report.Components, cr)
			continue
		}

		o.metrics.ComponentLaunched(name)
		o.logger.Info("component launched",
			"run_id", o.runID, "component", name, "kind", string(comp.Type))
		handles = append(handles, launched{idx: len(report.Components), handle: h})
		report.Components = append(report.Components, cr)
	}

	return handles
}
