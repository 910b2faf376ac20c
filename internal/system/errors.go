package system

import (
	"errors"
	"fmt"
)

// Domain errors for simulation context operations.
var (
	// ErrInvalidTimestep indicates a zero or negative step size.
	ErrInvalidTimestep = errors.New("system: timestep must be positive")

	// ErrInvalidState indicates a body state with NaN or Inf components.
	ErrInvalidState = errors.New("system: invalid body state (NaN or Inf detected)")

	// ErrUnknownItem indicates an Add call with an unsupported item type.
	ErrUnknownItem = errors.New("system: unknown item type")

	// ErrDuplicateBody indicates two bodies registered under the same name.
	ErrDuplicateBody = errors.New("system: duplicate body name")
)

// StepError wraps an error with the step and clock at which it occurred.
type StepError struct {
	Step    int
	Time    float64
	Body    string
	Wrapped error
}

func (e *StepError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("step %d (t=%.4f): body %s: %s", e.Step, e.Time, e.Body, e.Wrapped)
	}
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
