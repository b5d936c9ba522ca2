// Package statemachine implements a small finite state machine with guarded
// transitions.
//
// States and events are any types with a Name method; StringState and
// StringEvent cover the common case. Transitions are registered with New and
// the With* options:
//
//	machine := statemachine.MustNew(Datetime,
//	    statemachine.WithTransition(Datetime, Guests, Next,
//	        statemachine.WithGuard(slotSelected),
//	    ),
//	    statemachine.WithTransition(Guests, Datetime, Back),
//	)
//
// A Guard returns nil to allow a transition or an error describing why it
// may not happen. Fire and Check wrap that error in ErrTransitionRejected;
// RejectionReason or errors.As recovers it:
//
//	if err := machine.Fire(ctx, Next, draft); err != nil {
//	    if reason := statemachine.RejectionReason(err); reason != nil {
//	        show(reason.Error())
//	    }
//	}
//
// Actions run after the guards pass and before the state changes; an action
// error keeps the current state. SimpleStateMachine is safe for concurrent use.
package statemachine
