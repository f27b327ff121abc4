// SPDX-License-Identifier: MPL-2.0

package gitops

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	rt "github.com/arifsetyawan/switch-repo-experiment/internal/runtime"
	"github.com/arifsetyawan/switch-repo-experiment/pkg/topology"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test relies on POSIX shell syntax")
	}
}

// sinkCollector drains attributed lines on a background goroutine.
type sinkCollector struct {
	sink  chan rt.Line
	done  chan struct{}
	lines []rt.Line
}

func newSinkCollector() *sinkCollector {
	c := &sinkCollector{sink: make(chan rt.Line), done: make(chan struct{})}
	go func() {
		defer close(c.done)
		for line := range c.sink {
			c.lines = append(c.lines, line)
		}
	}()
	return c
}

func (c *sinkCollector) stop() []rt.Line {
	close(c.sink)
	<-c.done
	return c.lines
}

func repoTopology(t *testing.T) *topology.Topology {
	t.Helper()
	return &topology.Topology{
		Components: map[string]topology.Component{
			"api":    {Type: topology.KindService, Location: t.TempDir(), Start: "true"},
			"shared": {Type: topology.KindLibrary, Location: t.TempDir()},
			"queue":  {Type: topology.KindContainer, Container: "queue", Run: "true"},
		},
	}
}

func TestPullVisitsRepositoriesInOrder(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	// A fake git binary keeps the test hermetic: `echo pull` just prints
	// the verb it was given.
	w := New(repoTopology(t), &rt.Executor{}, WithGitBinary("echo"))
	c := newSinkCollector()

	if err := w.Pull(context.Background(), c.sink); err != nil {
		t.Fatalf("Pull() error: %v", err)
	}

	lines := c.stop()
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 (containers are skipped): %v", len(lines), lines)
	}
	// Sequential execution in sorted name order.
	if lines[0].Component != "api" || lines[1].Component != "shared" {
		t.Errorf("components = [%s, %s], want [api, shared]", lines[0].Component, lines[1].Component)
	}
	for _, line := range lines {
		if line.Text != "pull" {
			t.Errorf("line = %q, want %q", line.Text, "pull")
		}
	}
}

func TestCheckoutQuotesBranch(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	topo := &topology.Topology{
		Components: map[string]topology.Component{
			"api": {Type: topology.KindService, Location: t.TempDir(), Start: "true"},
		},
	}
	w := New(topo, &rt.Executor{}, WithGitBinary("echo"))
	c := newSinkCollector()

	// A branch name with a space survives the shell round trip intact
	// when quoting works.
	if err := w.Checkout(context.Background(), c.sink, "feature branch"); err != nil {
		t.Fatalf("Checkout() error: %v", err)
	}

	lines := c.stop()
	if len(lines) != 1 || lines[0].Text != "checkout feature branch" {
		t.Errorf("lines = %v, want one %q line", lines, "checkout feature branch")
	}
}

func TestCheckoutRequiresBranch(t *testing.T) {
	t.Parallel()

	w := New(repoTopology(t), &rt.Executor{}, WithGitBinary("echo"))
	if err := w.Checkout(context.Background(), nil, ""); err == nil {
		t.Error("Checkout(\"\") = nil error, want branch-required error")
	}
}

func TestMergeRequiresBranch(t *testing.T) {
	t.Parallel()

	w := New(repoTopology(t), &rt.Executor{}, WithGitBinary("echo"))
	if err := w.Merge(context.Background(), nil, ""); err == nil {
		t.Error("Merge(\"\") = nil error, want branch-required error")
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	// "api" has a location that does not exist, so its command cannot
	// spawn. "shared" must still run.
	topo := &topology.Topology{
		Components: map[string]topology.Component{
			"api":    {Type: topology.KindService, Location: filepath.Join(t.TempDir(), "missing"), Start: "true"},
			"shared": {Type: topology.KindLibrary, Location: t.TempDir()},
		},
	}
	w := New(topo, &rt.Executor{}, WithGitBinary("echo"))
	c := newSinkCollector()

	err := w.Push(context.Background(), c.sink)
	lines := c.stop()

	if err == nil {
		t.Fatal("Push() = nil error, want the broken repository reported")
	}
	if !strings.Contains(err.Error(), `"api"`) {
		t.Errorf("error %v does not name the failing component", err)
	}
	if len(lines) != 1 || lines[0].Component != "shared" {
		t.Errorf("lines = %v, want the healthy repository to have run", lines)
	}
}

func TestRunReportsNonzeroExit(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	topo := &topology.Topology{
		Components: map[string]topology.Component{
			"api": {Type: topology.KindService, Location: t.TempDir(), Start: "true"},
		},
	}
	// `false pull` ignores its argument and exits 1.
	w := New(topo, &rt.Executor{}, WithGitBinary("false"))

	err := w.Pull(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "exited with code 1") {
		t.Errorf("Pull() error = %v, want nonzero-exit report", err)
	}
}
