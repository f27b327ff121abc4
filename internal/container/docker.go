// SPDX-License-Identifier: MPL-2.0

package container

// DockerEngine drives containers through the docker CLI.
type DockerEngine struct {
	cliEngine
}

// NewDockerEngine creates a DockerEngine using the docker binary from PATH.
func NewDockerEngine() *DockerEngine {
	return &DockerEngine{cliEngine{name: "docker", bin: "docker"}}
}
