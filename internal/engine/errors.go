package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotLoaded is returned by filesystem and run calls before Load succeeds.
	ErrNotLoaded = errors.New("engine not loaded")
	// ErrInvalidName rejects names that are not flat identifiers.
	ErrInvalidName = errors.New("invalid engine file name")
	// ErrNotFound reports a missing file in the engine filesystem.
	ErrNotFound = errors.New("engine file not found")
)

// RunError describes a failed engine invocation together with the tail of
// its diagnostic output.
type RunError struct {
	Err    error
	Stderr []string
}

func (e *RunError) Error() string {
	var b strings.Builder
	b.WriteString("engine run failed")
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if line := e.lastLine(); line != "" {
		fmt.Fprintf(&b, ": %s", line)
	}
	return b.String()
}

func (e *RunError) Unwrap() error { return e.Err }

func (e *RunError) lastLine() string {
	for i := len(e.Stderr) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(e.Stderr[i]); line != "" {
			return line
		}
	}
	return ""
}
