package statemachine

import (
	"context"
)

type State interface {
	Name() string
}

type Event interface {
	Name() string
}

// Action runs a side effect during a transition. Returning an error keeps the
// machine in its current state.
type Action func(ctx context.Context, from, to State, event Event, data any) error

// Guard vetoes a transition by returning a non-nil error. The error is kept
// as the Reason of the resulting ErrTransitionRejected so callers can show it.
type Guard func(ctx context.Context, from State, event Event, data any) error

// Transition defines a state change triggered by an event.
type Transition struct {
	From    State
	To      State
	Event   Event
	Guards  []Guard  // all must pass
	Actions []Action // run in order before the state changes
}

// StateMachine defines the finite state machine operations.
type StateMachine interface {
	Current() State
	AddTransition(from, to State, event Event, guards []Guard, actions []Action) error
	Fire(ctx context.Context, event Event, data any) error
	// Check reports why Fire would fail for event without running actions.
	Check(ctx context.Context, event Event, data any) error
	CanFire(ctx context.Context, event Event, data any) bool
	Reset() error
}

// StringState is a State identified by its string value.
type StringState string

func (s StringState) Name() string {
	return string(s)
}

// StringEvent is an Event identified by its string value.
type StringEvent string

func (e StringEvent) Name() string {
	return string(e)
}
