package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// SimpleStateMachine is a thread-safe in-memory state machine.
// Transitions are indexed as [fromState][event][]Transition.
//
// Guards and actions run while the machine is locked and must not call back
// into it.
type SimpleStateMachine struct {
	initialState State
	currentState State
	transitions  map[string]map[string][]Transition
	mu           sync.RWMutex
}

func newSimpleStateMachine(initialState State) *SimpleStateMachine {
	return &SimpleStateMachine{
		initialState: initialState,
		currentState: initialState,
		transitions:  make(map[string]map[string][]Transition),
	}
}

func (sm *SimpleStateMachine) Current() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

func (sm *SimpleStateMachine) AddTransition(from, to State, event Event, guards []Guard, actions []Action) error {
	if from == nil || to == nil || event == nil {
		return ErrInvalidTransition
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	byEvent, ok := sm.transitions[from.Name()]
	if !ok {
		byEvent = make(map[string][]Transition)
		sm.transitions[from.Name()] = byEvent
	}

	// Several transitions per from/event pair allow guard based branching.
	byEvent[event.Name()] = append(byEvent[event.Name()], Transition{
		From:    from,
		To:      to,
		Event:   event,
		Guards:  guards,
		Actions: actions,
	})
	return nil
}

func (sm *SimpleStateMachine) Fire(ctx context.Context, event Event, data any) error {
	if event == nil {
		return ErrInvalidEvent
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	t, err := sm.match(ctx, event, data)
	if err != nil {
		return err
	}

	for _, action := range t.Actions {
		if action == nil {
			continue
		}
		if err := action(ctx, sm.currentState, t.To, event, data); err != nil {
			return fmt.Errorf("action failed: %w", err)
		}
	}

	sm.currentState = t.To
	return nil
}

func (sm *SimpleStateMachine) Check(ctx context.Context, event Event, data any) error {
	if event == nil {
		return ErrInvalidEvent
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()

	_, err := sm.match(ctx, event, data)
	return err
}

func (sm *SimpleStateMachine) CanFire(ctx context.Context, event Event, data any) bool {
	return sm.Check(ctx, event, data) == nil
}

func (sm *SimpleStateMachine) Reset() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.currentState = sm.initialState
	return nil
}

// match returns the first transition whose guards all pass. When every
// candidate is vetoed, the reason of the first rejection is reported.
// The caller must hold sm.mu.
func (sm *SimpleStateMachine) match(ctx context.Context, event Event, data any) (*Transition, error) {
	from := sm.currentState.Name()
	candidates := sm.transitions[from][event.Name()]
	if len(candidates) == 0 {
		return nil, NewErrNoTransitionAvailable(from, event.Name())
	}

	var reason error
	for i, t := range candidates {
		if err := runGuards(ctx, t, sm.currentState, event, data); err != nil {
			if reason == nil {
				reason = err
			}
			continue
		}
		return &candidates[i], nil
	}

	rejected := NewErrTransitionRejected(from, event.Name())
	rejected.Reason = reason
	return nil, rejected
}

func runGuards(ctx context.Context, t Transition, from State, event Event, data any) error {
	for _, guard := range t.Guards {
		if guard == nil {
			continue
		}
		if err := guard(ctx, from, event, data); err != nil {
			return err
		}
	}
	return nil
}
