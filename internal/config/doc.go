// SPDX-License-Identifier: MPL-2.0

// Package config loads the application configuration. Defaults come
// first, then an optional CUE config file validated against an embedded
// schema, then SWITCHREPO_* environment variables, each layer overriding
// the previous one.
package config
