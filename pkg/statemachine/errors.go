package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid transition: from, to, or event cannot be nil")
	ErrInvalidEvent      = errors.New("invalid event: event cannot be nil")
	ErrNilInitialState   = errors.New("initial state cannot be nil")
)

// ErrNoTransitionAvailable indicates no transition exists for the state/event pair.
type ErrNoTransitionAvailable struct {
	StateName string
	EventName string
}

func (e *ErrNoTransitionAvailable) Error() string {
	return fmt.Sprintf("no transition available from state '%s' for event '%s'", e.StateName, e.EventName)
}

func NewErrNoTransitionAvailable(stateName, eventName string) *ErrNoTransitionAvailable {
	return &ErrNoTransitionAvailable{
		StateName: stateName,
		EventName: eventName,
	}
}

// ErrTransitionRejected indicates every candidate transition was vetoed by a
// guard. Reason holds the error returned by the first vetoing guard.
type ErrTransitionRejected struct {
	StateName string
	EventName string
	Reason    error
}

func (e *ErrTransitionRejected) Error() string {
	msg := fmt.Sprintf("transition from state '%s' for event '%s' was rejected by guards", e.StateName, e.EventName)
	if e.Reason != nil {
		msg += ": " + e.Reason.Error()
	}
	return msg
}

func (e *ErrTransitionRejected) Unwrap() error {
	return e.Reason
}

func NewErrTransitionRejected(stateName, eventName string) *ErrTransitionRejected {
	return &ErrTransitionRejected{
		StateName: stateName,
		EventName: eventName,
	}
}

func IsNoTransitionAvailableError(err error) bool {
	var e *ErrNoTransitionAvailable
	return errors.As(err, &e)
}

func IsTransitionRejectedError(err error) bool {
	var e *ErrTransitionRejected
	return errors.As(err, &e)
}

// RejectionReason returns the guard error behind a rejected transition, or nil.
func RejectionReason(err error) error {
	var e *ErrTransitionRejected
	if errors.As(err, &e) {
		return e.Reason
	}
	return nil
}
