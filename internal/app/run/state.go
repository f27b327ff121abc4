// SPDX-License-Identifier: MPL-2.0

package run

// State is the orchestrator lifecycle state. Transitions are linear:
// Idle → Launching → Running → ShuttingDown → Done.
type State int32

const (
	// StateIdle means Run has not been called yet.
	StateIdle State = iota
	// StateLaunching means components are being dispatched in execution
	// order.
	StateLaunching
	// StateRunning means every entry has been dispatched and the
	// orchestrator is waiting for completion or an interrupt.
	StateRunning
	// StateShuttingDown means the run outcome is decided and handles
	// are being settled, terminating them first if interrupted.
	StateShuttingDown
	// StateDone is terminal.
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLaunching:
		return "launching"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting-down"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
