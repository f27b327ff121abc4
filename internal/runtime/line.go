// SPDX-License-Identifier: MPL-2.0

package runtime

import "time"

// Source identifies which stream of a process produced a line.
type Source int

const (
	// SourceStdout marks a line read from standard output.
	SourceStdout Source = iota
	// SourceStderr marks a line read from standard error.
	SourceStderr
)

// String returns the stream name.
func (s Source) String() string {
	switch s {
	case SourceStdout:
		return "stdout"
	case SourceStderr:
		return "stderr"
	default:
		return "unknown"
	}
}

// Line is a single line of output attributed to the component that
// produced it. Lines from concurrently running components are interleaved
// in the order they are read, so a shared sink observes output as it
// happens rather than buffered per component.
type Line struct {
	// Component is the topology name of the producing component.
	Component string
	// Source tells stdout from stderr.
	Source Source
	// Text is the line content without the trailing newline.
	Text string
	// Time is when the line was read.
	Time time.Time
}
