// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runtime

import "os/exec"

func setProcGroup(_ *exec.Cmd) {}

// terminate kills the process outright. Windows has no portable
// equivalent of a catchable termination signal, so there is no grace
// window on this platform.
func (p *Proc) terminate() error {
	return p.cmd.Process.Kill()
}
