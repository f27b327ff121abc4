// SPDX-License-Identifier: MPL-2.0

// Package run drives one orchestration run over a validated topology:
// it dispatches every execution-listed component to its runner, streams
// their attributed output, waits for either completion of all components
// or an operator interrupt, and guarantees every launched component is
// stopped before the run returns.
package run
