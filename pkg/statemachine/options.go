package statemachine

import "fmt"

// Option configures a state machine during construction.
type Option func(*SimpleStateMachine) error

// TransitionOption adds guards or actions to the transition being declared.
type TransitionOption func(*TransitionDef)

// TransitionDef declares one transition for WithTransitions.
type TransitionDef struct {
	From    State
	To      State
	Event   Event
	Guards  []Guard
	Actions []Action
}

func New(initial State, opts ...Option) (StateMachine, error) {
	if initial == nil {
		return nil, ErrNilInitialState
	}

	sm := newSimpleStateMachine(initial)
	for _, opt := range opts {
		if err := opt(sm); err != nil {
			return nil, err
		}
	}
	return sm, nil
}

// MustNew is like New but panics on an invalid definition.
func MustNew(initial State, opts ...Option) StateMachine {
	sm, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("statemachine: %v", err))
	}
	return sm
}

func WithTransition(from, to State, event Event, opts ...TransitionOption) Option {
	def := TransitionDef{From: from, To: to, Event: event}
	for _, opt := range opts {
		opt(&def)
	}
	return WithTransitions([]TransitionDef{def})
}

// WithTransitions adds every transition in order and stops at the first
// invalid one.
func WithTransitions(defs []TransitionDef) Option {
	return func(sm *SimpleStateMachine) error {
		for i, d := range defs {
			if err := sm.AddTransition(d.From, d.To, d.Event, d.Guards, d.Actions); err != nil {
				return fmt.Errorf("transition[%d] %s -> %s on %s: %w",
					i, nameOf(d.From), nameOf(d.To), nameOf(d.Event), err)
			}
		}
		return nil
	}
}

// WithGuard appends guards; nil guards are ignored.
func WithGuard(guards ...Guard) TransitionOption {
	return func(d *TransitionDef) {
		for _, g := range guards {
			if g != nil {
				d.Guards = append(d.Guards, g)
			}
		}
	}
}

// WithAction appends actions; nil actions are ignored.
func WithAction(actions ...Action) TransitionOption {
	return func(d *TransitionDef) {
		for _, a := range actions {
			if a != nil {
				d.Actions = append(d.Actions, a)
			}
		}
	}
}

func nameOf(n interface{ Name() string }) string {
	if n == nil {
		return "<nil>"
	}
	return n.Name()
}
