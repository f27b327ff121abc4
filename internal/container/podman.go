// SPDX-License-Identifier: MPL-2.0

package container

// PodmanEngine drives containers through the podman CLI.
type PodmanEngine struct {
	cliEngine
}

// NewPodmanEngine creates a PodmanEngine using the podman binary from PATH.
func NewPodmanEngine() *PodmanEngine {
	return &PodmanEngine{cliEngine{name: "podman", bin: "podman"}}
}
