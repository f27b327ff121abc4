// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package runtime

import (
	"os/exec"
	"syscall"
	"time"
)

// setProcGroup places the child in its own process group so a
// termination request reaches the shell's descendants, not just the
// shell itself.
func setProcGroup(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func (p *Proc) terminate() error {
	pid := p.cmd.Process.Pid

	err := syscall.Kill(-pid, syscall.SIGTERM)
	if err != nil {
		// The group may already be gone; try the process directly.
		err = p.cmd.Process.Signal(syscall.SIGTERM)
	}

	p.killOnce.Do(func() {
		go func() {
			select {
			case <-p.done:
			case <-time.After(p.grace):
				_ = syscall.Kill(-pid, syscall.SIGKILL)
				_ = p.cmd.Process.Kill()
			}
		}()
	})

	return err
}
