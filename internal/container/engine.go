// SPDX-License-Identifier: MPL-2.0

package container

import (
	"fmt"
	"os/exec"

	"mvdan.cc/sh/v3/syntax"
)

// EngineType identifies a container engine preference.
type EngineType string

// Engine preference constants, matching the container_engine config values.
const (
	EngineAuto   EngineType = "auto"
	EngineDocker EngineType = "docker"
	EnginePodman EngineType = "podman"
)

// IsValid reports whether t is a known preference.
func (t EngineType) IsValid() bool {
	return t == EngineAuto || t == EngineDocker || t == EnginePodman
}

// Engine builds the shell commands used to drive one container engine.
type Engine interface {
	// Name identifies the engine in logs ("docker", "podman").
	Name() string
	// Available reports whether the engine binary is on PATH.
	Available() bool
	// ResumeCommand returns the shell command that starts an existing
	// container by name. A non-zero exit means the container cannot be
	// resumed and must be created.
	ResumeCommand(container string) (string, error)
	// LogsCommand returns the shell command that follows the container's
	// log stream indefinitely.
	LogsCommand(container string) (string, error)
}

// UnavailableError is returned by Detect when no usable engine exists.
type UnavailableError struct {
	Preference EngineType
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("no container engine available (preference %q): install docker or podman", e.Preference)
}

// Detect returns a usable engine. The preferred engine is tried first; if it
// is not installed the other one is used instead, so a topology keeps working
// on machines that only have the alternative.
func Detect(pref EngineType) (Engine, error) {
	order := []Engine{NewDockerEngine(), NewPodmanEngine()}
	if pref == EnginePodman {
		order[0], order[1] = order[1], order[0]
	}

	for _, e := range order {
		if e.Available() {
			return e, nil
		}
	}
	return nil, &UnavailableError{Preference: pref}
}

// cliEngine implements Engine for any docker-compatible CLI. DockerEngine
// and PodmanEngine embed it; podman keeps CLI compatibility with docker for
// the subcommands used here.
type cliEngine struct {
	name string
	bin  string
}

// Name returns the engine name.
func (e *cliEngine) Name() string { return e.name }

// Available reports whether the engine binary is on PATH.
func (e *cliEngine) Available() bool {
	_, err := exec.LookPath(e.bin)
	return err == nil
}

// ResumeCommand returns "<bin> start <name>".
func (e *cliEngine) ResumeCommand(container string) (string, error) {
	name, err := quoteName(container)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s start %s", e.bin, name), nil
}

// LogsCommand returns "<bin> logs --follow <name>".
func (e *cliEngine) LogsCommand(container string) (string, error) {
	name, err := quoteName(container)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s logs --follow %s", e.bin, name), nil
}

func quoteName(container string) (string, error) {
	quoted, err := syntax.Quote(container, syntax.LangPOSIX)
	if err != nil {
		return "", fmt.Errorf("quote container name %q: %w", container, err)
	}
	return quoted, nil
}
