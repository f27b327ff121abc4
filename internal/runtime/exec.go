// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// DefaultGrace is how long a terminated process gets to exit cleanly
// before it is killed outright.
const DefaultGrace = 5 * time.Second

const (
	// scanBufInitial is the starting buffer size for output scanners.
	scanBufInitial = 64 * 1024
	// scanBufMax caps a single output line; longer lines abort the scan.
	scanBufMax = 1024 * 1024
)

type (
	// Command describes one shell invocation.
	Command struct {
		// Component is the topology name output lines are attributed to.
		Component string
		// Script is the command string handed to the shell.
		Script string
		// Dir is the working directory. Empty inherits the caller's.
		Dir string
		// Env is the complete environment for the process in KEY=VALUE
		// form. Nil inherits the ambient environment.
		Env []string
	}

	// Result is the outcome of one process lifecycle.
	Result struct {
		// ExitCode is the exit code of the process. -1 means the process
		// was killed by a signal or failed before an exit code existed.
		ExitCode int
		// Err carries failures that are not plain nonzero exits.
		Err error
	}

	// Executor starts shell commands and streams their output as
	// attributed lines. The zero value resolves the shell from the
	// platform and uses DefaultGrace for termination.
	Executor struct {
		// Shell overrides shell detection when set.
		Shell string
		// ShellArgs overrides the arguments placed before the script.
		ShellArgs []string
		// Grace is the window between a termination request and a
		// forced kill. Zero means DefaultGrace.
		Grace time.Duration
	}
)

// Success reports whether the process exited cleanly.
func (r Result) Success() bool {
	return r.ExitCode == 0 && r.Err == nil
}

// Start spawns cmd.Script through a shell interpreter and returns a Proc
// tracking it. Every line the process writes is sent to sink as it is
// read; sends block, so the sink must be drained until the Proc is done.
// A nil sink discards output. Start fails with a *SpawnError when the
// process cannot be created, and with ctx.Err() when ctx is already
// cancelled; it does not watch ctx afterwards, termination of a live
// process goes through Proc.Terminate.
func (e *Executor) Start(ctx context.Context, cmd Command, sink chan<- Line) (*Proc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shell, err := e.getShell()
	if err != nil {
		return nil, &SpawnError{Component: cmd.Component, Script: cmd.Script, Err: err}
	}
	args := append(e.getShellArgs(shell), cmd.Script)

	c := exec.Command(shell, args...)
	c.Dir = cmd.Dir
	if cmd.Env != nil {
		c.Env = cmd.Env
	}
	setProcGroup(c)

	stdout, err := c.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Component: cmd.Component, Script: cmd.Script, Err: err}
	}
	stderr, err := c.StderrPipe()
	if err != nil {
		return nil, &SpawnError{Component: cmd.Component, Script: cmd.Script, Err: err}
	}

	if err := c.Start(); err != nil {
		return nil, &SpawnError{Component: cmd.Component, Script: cmd.Script, Err: err}
	}

	p := &Proc{
		component: cmd.Component,
		cmd:       c,
		grace:     e.grace(),
		done:      make(chan struct{}),
	}

	var scanners sync.WaitGroup
	scanners.Add(2)
	go p.scan(stdout, SourceStdout, sink, &scanners)
	go p.scan(stderr, SourceStderr, sink, &scanners)
	go p.run(&scanners)

	return p, nil
}

func (e *Executor) grace() time.Duration {
	if e.Grace > 0 {
		return e.Grace
	}
	return DefaultGrace
}

// getShell determines which shell to use.
func (e *Executor) getShell() (string, error) {
	if e.Shell != "" {
		return e.Shell, nil
	}

	switch runtime.GOOS {
	case "windows":
		if pwsh, err := exec.LookPath("pwsh"); err == nil {
			return pwsh, nil
		}
		if ps, err := exec.LookPath("powershell"); err == nil {
			return ps, nil
		}
		return exec.LookPath("cmd")
	default:
		if shell := os.Getenv("SHELL"); shell != "" {
			return shell, nil
		}
		if bash, err := exec.LookPath("bash"); err == nil {
			return bash, nil
		}
		if sh, err := exec.LookPath("sh"); err == nil {
			return sh, nil
		}
		return "", errors.New("no shell found")
	}
}

// getShellArgs returns the arguments to pass to the shell.
func (e *Executor) getShellArgs(shell string) []string {
	if len(e.ShellArgs) > 0 {
		return e.ShellArgs
	}

	base := filepath.Base(shell)
	base = strings.TrimSuffix(base, ".exe")

	switch base {
	case "cmd":
		return []string{"/C"}
	case "powershell", "pwsh":
		return []string{"-NoProfile", "-Command"}
	default:
		// Assume POSIX shell
		return []string{"-c"}
	}
}

// Proc is a live process started by an Executor. It satisfies Handle.
type Proc struct {
	component string
	cmd       *exec.Cmd
	grace     time.Duration

	done   chan struct{}
	result Result

	killOnce sync.Once
}

// Component returns the name output lines are attributed to.
func (p *Proc) Component() string { return p.component }

// Done is closed once the process has exited and its result is set.
func (p *Proc) Done() <-chan struct{} { return p.done }

// Result returns the outcome. Valid only after Done is closed.
func (p *Proc) Result() Result { return p.result }

// Wait blocks until the process exits and returns its Result.
func (p *Proc) Wait() Result {
	<-p.done
	return p.result
}

// Terminate requests that the process stop. The request escalates to a
// forced kill if the process is still alive after the grace window.
// Calling Terminate on an already-exited process is a no-op.
func (p *Proc) Terminate() error {
	select {
	case <-p.done:
		return nil
	default:
	}
	return p.terminate()
}

func (p *Proc) scan(r io.Reader, src Source, sink chan<- Line, wg *sync.WaitGroup) {
	defer wg.Done()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, scanBufInitial), scanBufMax)
	for scanner.Scan() {
		if sink == nil {
			continue
		}
		sink <- Line{
			Component: p.component,
			Source:    src,
			Text:      scanner.Text(),
			Time:      time.Now(),
		}
	}
}

func (p *Proc) run(scanners *sync.WaitGroup) {
	// Pipes must be fully drained before Wait reclaims them.
	scanners.Wait()
	err := p.cmd.Wait()

	switch {
	case err == nil:
		p.result = Result{ExitCode: 0}
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			p.result = Result{ExitCode: exitErr.ExitCode()}
		} else {
			p.result = Result{ExitCode: -1, Err: fmt.Errorf("wait for %q: %w", p.component, err)}
		}
	}
	close(p.done)
}
