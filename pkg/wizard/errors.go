package wizard

import (
	"errors"
	"fmt"
)

var (
	ErrNoSteps       = errors.New("wizard has no steps")
	ErrEmptyStepName = errors.New("wizard step name is empty")
	ErrDuplicateStep = errors.New("duplicate wizard step")
	ErrTerminalStep  = errors.New("wizard is on its terminal step")
	ErrStepLocked    = errors.New("wizard step cannot be left backwards")
	ErrUnknownStep   = errors.New("unknown wizard step")
	ErrForwardJump   = errors.New("wizard can only jump back to a visited step")
	ErrGateRejected  = errors.New("wizard step gate rejected")
)

// GateError is returned when the current step's gate refuses to let the user
// advance. Error returns the step-level message meant for the user.
type GateError struct {
	Step string
	Err  error
}

func (e *GateError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrGateRejected, e.Step)
	}
	return e.Err.Error()
}

func (e *GateError) Unwrap() []error {
	return []error{ErrGateRejected, e.Err}
}

// IsGateError reports whether err is a step gate rejection.
func IsGateError(err error) bool {
	var ge *GateError
	return errors.As(err, &ge)
}

// GateMessage returns the user facing message of a gate rejection, or "".
func GateMessage(err error) string {
	var ge *GateError
	if errors.As(err, &ge) {
		return ge.Error()
	}
	return ""
}
