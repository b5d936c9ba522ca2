package form

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/reservekit/pkg/i18n"
	"github.com/dmitrymomot/reservekit/pkg/logger"
	"github.com/dmitrymomot/reservekit/pkg/validator"
)

// FieldConfig declares one form field. Dependencies name fields whose
// changes must trigger revalidation of this one.
type FieldConfig struct {
	Name         string
	Label        string
	Rules        []validator.FieldRule
	Dependencies []string
}

// Engine owns the state of a single form. All methods are safe for
// concurrent use; state changes are serialized and go through Reduce.
type Engine struct {
	fields     []FieldConfig
	index      map[string]int
	dependents map[string][]string

	validateOnChange bool
	validateOnBlur   bool
	initialValues    map[string]any
	onSubmit         SubmitFunc
	logger           *slog.Logger
	translator       *i18n.Translator
	lang             string

	scheduler Scheduler
	queue     *Queue

	mu      sync.RWMutex
	state   State
	initial State
	// generation invalidates validation tasks queued before a reset.
	generation uint64

	submitting atomic.Bool
}

// New builds an engine for fields. Field names must be unique and non-empty,
// rules must be well formed and dependencies must name declared fields.
func New(fields []FieldConfig, opts ...Option) (*Engine, error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	queue := &Queue{}
	e := &Engine{
		fields:           make([]FieldConfig, len(fields)),
		index:            make(map[string]int, len(fields)),
		dependents:       make(map[string][]string),
		validateOnChange: true,
		validateOnBlur:   true,
		initialValues:    make(map[string]any, len(fields)),
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		scheduler:        queue,
		queue:            queue,
	}

	for i, f := range fields {
		if f.Name == "" {
			return nil, ErrEmptyFieldName
		}
		if _, ok := e.index[f.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateField, f.Name)
		}
		for _, rule := range f.Rules {
			if err := rule.Validate(); err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
		}
		e.index[f.Name] = i
		e.fields[i] = f
	}

	for _, f := range e.fields {
		deps := append([]string(nil), f.Dependencies...)
		for _, rule := range f.Rules {
			if rule.Kind == validator.KindMatches {
				deps = append(deps, rule.Field)
			}
		}
		for _, dep := range deps {
			if _, ok := e.index[dep]; !ok {
				return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownDependency, f.Name, dep)
			}
			if dep == f.Name || slices.Contains(e.dependents[dep], f.Name) {
				continue
			}
			e.dependents[dep] = append(e.dependents[dep], f.Name)
		}
	}

	for _, opt := range opts {
		opt(e)
	}
	if e.scheduler != e.queue {
		e.queue = nil
	}

	values := make(map[string]any, len(e.fields))
	for _, f := range e.fields {
		values[f.Name] = e.initialValues[f.Name]
	}
	e.initial = State{
		Values:  values,
		Errors:  validator.ValidationErrors{},
		Touched: map[string]bool{},
	}
	e.state = e.initial.Clone()

	return e, nil
}

// SetValue stores value for field and marks the form dirty. Validation of the
// field and of its dependents runs after the value is committed, when
// validate-on-change is enabled.
func (e *Engine) SetValue(field string, value any) error {
	if !e.has(field) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	e.mu.Lock()
	e.dispatch(Action{Type: ActionSetValue, Field: field, Value: value})
	gen := e.generation
	e.mu.Unlock()

	if e.validateOnChange {
		e.schedule(gen, field)
		for _, dep := range e.dependents[field] {
			e.schedule(gen, dep)
		}
		e.flush()
	}
	return nil
}

// MarkFieldAsTouched records that the user left field. The field is then
// validated when validate-on-blur is enabled.
func (e *Engine) MarkFieldAsTouched(field string) error {
	if !e.has(field) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	e.mu.Lock()
	e.dispatch(Action{Type: ActionTouch, Field: field})
	gen := e.generation
	e.mu.Unlock()

	if e.validateOnBlur {
		e.schedule(gen, field)
		e.flush()
	}
	return nil
}

// TouchAll marks every declared field as touched without validating.
func (e *Engine) TouchAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dispatch(Action{Type: ActionTouch, Fields: e.fieldNames()})
}

// ValidateField runs field's rules against the current values and replaces
// its previous error. It returns whether the field is valid. Undeclared
// fields have no rules and are valid unless an error was set for them.
func (e *Engine) ValidateField(field string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, ok := e.index[field]
	if !ok {
		return !e.state.Errors.Has(field)
	}

	verr := e.evaluate(e.fields[idx], e.state.Values)
	e.dispatch(Action{Type: ActionFieldResult, Field: field, Error: verr})
	return verr == nil
}

// ValidateForm re-evaluates every field from scratch and replaces the whole
// error list, server errors included.
func (e *Engine) ValidateForm() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validateForm()
}

func (e *Engine) validateForm() bool {
	errs := validator.ValidationErrors{}
	for _, f := range e.fields {
		if verr := e.evaluate(f, e.state.Values); verr != nil {
			errs = append(errs, *verr)
		}
	}
	e.dispatch(Action{Type: ActionReplaceErrors, Errors: errs})
	return len(errs) == 0
}

// SetError records a server side error for field, replacing any existing one.
func (e *Engine) SetError(field, message string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dispatch(Action{Type: ActionSetError, Field: field, Message: message})
}

func (e *Engine) ClearError(field string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dispatch(Action{Type: ActionClearError, Field: field})
}

func (e *Engine) ClearAllErrors() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dispatch(Action{Type: ActionClearAll})
}

// SetServerErrors applies field errors returned by a backend, e.g. from a
// rejected reservation request.
func (e *Engine) SetServerErrors(errs validator.ValidationErrors) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, verr := range errs {
		e.dispatch(Action{Type: ActionSetError, Field: verr.Field, Message: verr.Message})
	}
}

// HandleSubmit touches every field, validates the form and, when it is valid,
// passes a copy of the values to the submit handler.
//
// It returns ErrSubmitInProgress if another submission is running,
// validator.ValidationErrors if the form is invalid, or the handler's error.
// The submitting flag is cleared on every path. Values and touched fields are
// kept after a failure so the user does not have to type them again.
func (e *Engine) HandleSubmit(ctx context.Context) error {
	if !e.submitting.CompareAndSwap(false, true) {
		return ErrSubmitInProgress
	}

	e.mu.Lock()
	e.dispatch(Action{Type: ActionSubmitStart})
	e.dispatch(Action{Type: ActionTouch, Fields: e.fieldNames()})
	valid := e.validateForm()
	values := maps.Clone(e.state.Values)
	errs := append(validator.ValidationErrors(nil), e.state.Errors...)
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.dispatch(Action{Type: ActionSubmitEnd})
		e.mu.Unlock()
		e.submitting.Store(false)
	}()

	if !valid {
		e.logger.DebugContext(ctx, "form submission blocked by validation",
			slog.Any("fields", errs.Fields()),
		)
		return errs
	}
	if e.onSubmit == nil {
		return nil
	}

	if err := e.onSubmit(ctx, values); err != nil {
		e.logger.ErrorContext(ctx, "form submission failed", logger.Error(err))
		return err
	}
	return nil
}

// ResetForm restores the state the engine was created with. Validation tasks
// still queued in an external scheduler are discarded.
func (e *Engine) ResetForm() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.dispatch(Action{Type: ActionReset, Initial: e.initial})
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Clone()
}

// InitialState returns a copy of the state ResetForm restores.
func (e *Engine) InitialState() State {
	return e.initial.Clone()
}

func (e *Engine) Values() map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return maps.Clone(e.state.Values)
}

func (e *Engine) Value(field string) any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Values[field]
}

func (e *Engine) Errors() validator.ValidationErrors {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append(validator.ValidationErrors(nil), e.state.Errors...)
}

// FieldError returns the message of field's error, or an empty string.
func (e *Engine) FieldError(field string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	verr, _ := e.state.Errors.First(field)
	return verr.Message
}

func (e *Engine) HasFieldError(field string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Errors.Has(field)
}

func (e *Engine) IsFieldTouched(field string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Touched[field]
}

func (e *Engine) IsValid() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.IsValid()
}

func (e *Engine) IsDirty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.IsDirty
}

func (e *Engine) IsSubmitting() bool {
	return e.submitting.Load()
}

// Fields returns the declared field configuration.
func (e *Engine) Fields() []FieldConfig {
	return append([]FieldConfig(nil), e.fields...)
}

// Dependents returns the fields revalidated when field changes.
func (e *Engine) Dependents(field string) []string {
	return append([]string(nil), e.dependents[field]...)
}

// dispatch must be called with e.mu held.
func (e *Engine) dispatch(a Action) {
	e.state = Reduce(e.state, a)
}

func (e *Engine) schedule(gen uint64, field string) {
	e.scheduler.Schedule(func() {
		e.mu.RLock()
		stale := gen != e.generation
		e.mu.RUnlock()
		if stale {
			return
		}
		e.ValidateField(field)
	})
}

func (e *Engine) flush() {
	if e.queue != nil {
		e.queue.Drain()
	}
}

// evaluate returns the first failing rule of f, localized when a translator
// is configured and the rule has no message override.
func (e *Engine) evaluate(f FieldConfig, values map[string]any) *validator.ValidationError {
	value := values[f.Name]
	for _, rule := range f.Rules {
		verr := validator.Evaluate(f.Name, value, rule, values)
		if verr == nil {
			continue
		}
		if e.translator != nil && rule.Message == "" && verr.Message == rule.DefaultMessage() {
			verr.Message = e.translator.T(e.lang, verr.TranslationKey, e.translationArgs(f, verr)...)
		}
		return verr
	}
	return nil
}

func (e *Engine) translationArgs(f FieldConfig, verr *validator.ValidationError) []string {
	args := make([]string, 0, len(verr.TranslationValues)*2)
	for k, v := range verr.TranslationValues {
		s := fmt.Sprint(v)
		if k == "field" && f.Label != "" {
			s = f.Label
		}
		if k == "other" {
			if idx, ok := e.index[s]; ok && e.fields[idx].Label != "" {
				s = e.fields[idx].Label
			}
		}
		args = append(args, k, s)
	}
	return args
}

func (e *Engine) has(field string) bool {
	_, ok := e.index[field]
	return ok
}

func (e *Engine) fieldNames() []string {
	names := make([]string, len(e.fields))
	for i, f := range e.fields {
		names[i] = f.Name
	}
	return names
}
