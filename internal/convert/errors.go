package convert

import (
	"errors"
	"strings"
)

var (
	// ErrNoInput is returned by Convert when no file is selected.
	ErrNoInput = errors.New("no input selected")
	// ErrBusy is returned by Convert while another conversion is in flight.
	ErrBusy = errors.New("conversion already in progress")
	// ErrEngineNotReady is returned when the engine is still not loaded
	// after an on-demand load.
	ErrEngineNotReady = errors.New("engine not ready")
)

// StepError tags a pipeline failure with the step that produced it.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	if e.Err == nil {
		return e.Step + ": failed"
	}
	return e.Step + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error { return e.Err }

func wrap(step string, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: step, Err: err}
}

// userMessage returns the message shown to the user: the underlying cause
// without the step prefix.
func userMessage(err error) string {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		if stepErr.Err == nil {
			return ""
		}
		return strings.TrimSpace(stepErr.Err.Error())
	}
	if err == nil {
		return ""
	}
	return strings.TrimSpace(err.Error())
}
