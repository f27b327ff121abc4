// SPDX-License-Identifier: MPL-2.0

// Package runtime launches topology components and tracks them while they
// run. An Executor spawns shell commands and streams their output as
// attributed lines; Runner implementations translate each component kind
// into one or more executions; a Handle follows a launched component until
// it exits or is terminated.
package runtime
