// SPDX-License-Identifier: MPL-2.0

// Package container abstracts the local container engines (Docker/Podman)
// behind the Engine interface. Engines do not run anything themselves: they
// build the shell command strings for resuming a named container and for
// following its log stream, and the command executor runs those strings so
// container output gets the same per-component attribution as service
// output.
//
// Engine selection uses Detect, which honors the configured preference and
// falls back to whichever engine is installed. Container names are quoted
// for the shell, so names coming from the topology cannot break the command
// line.
package container
