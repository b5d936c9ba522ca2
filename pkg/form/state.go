package form

import (
	"maps"

	"github.com/dmitrymomot/reservekit/pkg/validator"
)

// State is a snapshot of a form. Engines never mutate a State in place;
// every change goes through Reduce and produces a new value.
type State struct {
	Values       map[string]any
	Errors       validator.ValidationErrors
	Touched      map[string]bool
	IsSubmitting bool
	IsDirty      bool
}

// IsValid reports whether the form currently has no errors.
func (s State) IsValid() bool {
	return len(s.Errors) == 0
}

// Clone returns a deep enough copy that callers may modify freely.
func (s State) Clone() State {
	s.Values = maps.Clone(s.Values)
	s.Touched = maps.Clone(s.Touched)
	s.Errors = append(make(validator.ValidationErrors, 0, len(s.Errors)), s.Errors...)
	return s
}

// ActionType names a state transition.
type ActionType string

const (
	ActionSetValue      ActionType = "set_value"
	ActionTouch         ActionType = "touch"
	ActionFieldResult   ActionType = "field_result"
	ActionReplaceErrors ActionType = "replace_errors"
	ActionSetError      ActionType = "set_error"
	ActionClearError    ActionType = "clear_error"
	ActionClearAll      ActionType = "clear_all_errors"
	ActionSubmitStart   ActionType = "submit_start"
	ActionSubmitEnd     ActionType = "submit_end"
	ActionReset         ActionType = "reset"
)

// Action is the input of Reduce. Only the fields relevant to Type are read.
type Action struct {
	Type   ActionType
	Field  string
	Fields []string
	Value  any

	// Error is the outcome of a field validation; nil means the field passed.
	Error   *validator.ValidationError
	Errors  validator.ValidationErrors
	Message string

	// Initial is the state restored by ActionReset.
	Initial State
}

// Reduce applies action to state and returns the new state. The input state
// is left untouched, unknown actions return it unchanged.
func Reduce(state State, action Action) State {
	switch action.Type {
	case ActionSetValue:
		values := make(map[string]any, len(state.Values)+1)
		maps.Copy(values, state.Values)
		values[action.Field] = action.Value
		state.Values = values
		state.IsDirty = true

	case ActionTouch:
		fields := action.Fields
		if action.Field != "" {
			fields = append([]string{action.Field}, fields...)
		}
		touched := make(map[string]bool, len(state.Touched)+len(fields))
		maps.Copy(touched, state.Touched)
		for _, f := range fields {
			touched[f] = true
		}
		state.Touched = touched

	case ActionFieldResult:
		if action.Error == nil {
			state.Errors = state.Errors.Without(action.Field)
		} else {
			verr := *action.Error
			verr.Field = action.Field
			state.Errors = state.Errors.Set(verr)
		}

	case ActionReplaceErrors:
		state.Errors = append(validator.ValidationErrors{}, action.Errors...)

	case ActionSetError:
		state.Errors = state.Errors.Set(validator.ValidationError{
			Field:   action.Field,
			Message: action.Message,
			Type:    validator.TypeServer,
		})

	case ActionClearError:
		state.Errors = state.Errors.Without(action.Field)

	case ActionClearAll:
		state.Errors = validator.ValidationErrors{}

	case ActionSubmitStart:
		state.IsSubmitting = true

	case ActionSubmitEnd:
		state.IsSubmitting = false

	case ActionReset:
		state = action.Initial.Clone()
	}

	return state
}
