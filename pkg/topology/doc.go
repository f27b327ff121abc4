// SPDX-License-Identifier: MPL-2.0

// Package topology defines the declarative description of a multi-repository
// application: its components (services, containers, libraries), their
// environment overrides, inter-component links, and the order in which
// runnable components are launched.
//
// A topology is written as a CUE document (switchrepo.cue). Load parses it
// against the embedded #Topology schema, resolves component locations
// relative to the document, and applies the cross-reference validation CUE
// cannot express (execution entries must name components, links must point
// at libraries, commands must be valid shell syntax). The resulting Topology
// is immutable for the duration of a run.
package topology
