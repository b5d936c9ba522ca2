package form_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reservekit/pkg/form"
	"github.com/dmitrymomot/reservekit/pkg/i18n"
	"github.com/dmitrymomot/reservekit/pkg/validator"
)

func contactFields() []form.FieldConfig {
	return []form.FieldConfig{
		{Name: "name", Label: "Name", Rules: []validator.FieldRule{validator.IsRequired(), validator.HasMinLength(3)}},
		{Name: "email", Label: "Email", Rules: []validator.FieldRule{validator.IsRequired(), validator.IsEmail()}},
		{Name: "phone", Label: "Phone", Rules: []validator.FieldRule{validator.IsPhone()}},
	}
}

func passwordFields() []form.FieldConfig {
	return []form.FieldConfig{
		{Name: "newPassword", Rules: []validator.FieldRule{validator.IsRequired(), validator.HasMinLength(6)}},
		{Name: "confirmPassword", Rules: []validator.FieldRule{validator.IsRequired(), validator.MatchesField("newPassword")}},
	}
}

func newEngine(t *testing.T, fields []form.FieldConfig, opts ...form.Option) *form.Engine {
	t.Helper()
	eng, err := form.New(fields, opts...)
	require.NoError(t, err)
	return eng
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields []form.FieldConfig
		err    error
	}{
		{"no fields", nil, form.ErrNoFields},
		{"empty name", []form.FieldConfig{{Name: ""}}, form.ErrEmptyFieldName},
		{"duplicate", []form.FieldConfig{{Name: "a"}, {Name: "a"}}, form.ErrDuplicateField},
		{"unknown dependency", []form.FieldConfig{{Name: "a", Dependencies: []string{"b"}}}, form.ErrUnknownDependency},
		{"matches unknown field", []form.FieldConfig{{Name: "a", Rules: []validator.FieldRule{validator.MatchesField("b")}}}, form.ErrUnknownDependency},
		{"broken rule", []form.FieldConfig{{Name: "a", Rules: []validator.FieldRule{validator.MatchesPattern(nil)}}}, validator.ErrInvalidRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := form.New(tt.fields)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
		})
	}
}

func TestEngine_InitialState(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, contactFields(), form.WithInitialValues(map[string]any{"name": "Ana"}))
	state := eng.State()

	assert.Equal(t, map[string]any{"name": "Ana", "email": nil, "phone": nil}, state.Values)
	assert.Empty(t, state.Errors)
	assert.Empty(t, state.Touched)
	assert.False(t, state.IsDirty)
	assert.False(t, state.IsSubmitting)
	assert.True(t, state.IsValid())
}

func TestEngine_SetValueValidatesAfterCommit(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, contactFields())

	require.NoError(t, eng.SetValue("email", "a@b"))
	assert.True(t, eng.IsDirty())
	assert.Equal(t, "a@b", eng.Value("email"))
	assert.Equal(t, validator.IsEmail().DefaultMessage(), eng.FieldError("email"))
	assert.False(t, eng.IsValid())

	require.NoError(t, eng.SetValue("email", "guest@example.mx"))
	assert.False(t, eng.HasFieldError("email"))
	assert.True(t, eng.IsValid())

	err := eng.SetValue("nickname", "x")
	assert.True(t, errors.Is(err, form.ErrUnknownField))
}

func TestEngine_FirstFailingRuleWins(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, contactFields())

	assert.False(t, eng.ValidateField("email"))
	errs := eng.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "required", errs[0].Type)
	assert.Equal(t, "field is required", errs[0].Message)
}

func TestEngine_ValidateFieldIsIdempotent(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, contactFields(), form.WithValidateOnChange(false))
	require.NoError(t, eng.SetValue("name", "Al"))
	require.NoError(t, eng.SetValue("email", "bad"))

	eng.ValidateField("name")
	eng.ValidateField("email")
	first := eng.Errors()

	eng.ValidateField("email")
	eng.ValidateField("email")
	if diff := cmp.Diff(first, eng.Errors()); diff != "" {
		t.Fatalf("repeated validation changed errors (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"name", "email"}, eng.Errors().Fields())
}

func TestEngine_ValidateFormAgreesWithFieldLoop(t *testing.T) {
	t.Parallel()

	cases := []map[string]any{
		{},
		{"name": "Ana", "email": "ana@example.mx"},
		{"name": "Ana", "email": "ana@example.mx", "phone": "+52 55 1234 5678"},
		{"name": "Al", "email": "ana@example.mx"},
		{"name": "Ana", "email": "a@b", "phone": "call me"},
	}

	for _, values := range cases {
		byForm := newEngine(t, contactFields(), form.WithInitialValues(values))
		byField := newEngine(t, contactFields(), form.WithInitialValues(values))

		formValid := byForm.ValidateForm()
		fieldValid := true
		for _, f := range byField.Fields() {
			fieldValid = byField.ValidateField(f.Name) && fieldValid
		}

		assert.Equal(t, formValid, fieldValid, "values %v", values)
		assert.Equal(t, byForm.IsValid(), byField.IsValid(), "values %v", values)
		assert.Empty(t, cmp.Diff(byForm.Errors(), byField.Errors()), "values %v", values)
	}
}

func TestEngine_MatchesRevalidatesOnTargetChange(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, passwordFields())
	assert.Equal(t, []string{"confirmPassword"}, eng.Dependents("newPassword"))

	require.NoError(t, eng.SetValue("newPassword", "abc123"))
	require.NoError(t, eng.SetValue("confirmPassword", "abc123"))
	require.True(t, eng.IsValid())

	// Only the target changes; the confirmation must now fail.
	require.NoError(t, eng.SetValue("newPassword", "abc124"))
	assert.True(t, eng.HasFieldError("confirmPassword"))
	assert.False(t, eng.HasFieldError("newPassword"))
	assert.Equal(t, "must match newPassword", eng.FieldError("confirmPassword"))
}

func TestEngine_MismatchReportedOnConfirmationOnly(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, passwordFields(), form.WithInitialValues(map[string]any{
		"newPassword":     "abc123",
		"confirmPassword": "abc124",
	}))

	assert.False(t, eng.ValidateForm())
	assert.Equal(t, []string{"confirmPassword"}, eng.Errors().Fields())
}

func TestEngine_ExplicitDependencies(t *testing.T) {
	t.Parallel()

	notBefore := validator.Custom(func(value any, values map[string]any) (bool, string) {
		end, errEnd := validator.ParseDate(value)
		start, errStart := validator.ParseDate(values["checkIn"])
		if errEnd != nil || errStart != nil {
			return true, ""
		}
		return !end.Before(start), "check-out must be after check-in"
	})

	eng := newEngine(t, []form.FieldConfig{
		{Name: "checkIn", Rules: []validator.FieldRule{validator.IsDate()}},
		{Name: "checkOut", Rules: []validator.FieldRule{validator.IsDate(), notBefore}, Dependencies: []string{"checkIn"}},
	})

	require.NoError(t, eng.SetValue("checkOut", "2025-03-10"))
	require.NoError(t, eng.SetValue("checkIn", "2025-03-12"))
	assert.Equal(t, "check-out must be after check-in", eng.FieldError("checkOut"))

	require.NoError(t, eng.SetValue("checkIn", "2025-03-08"))
	assert.False(t, eng.HasFieldError("checkOut"))
}

func TestEngine_DependentsSkippedWhenChangeValidationDisabled(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, passwordFields(), form.WithValidateOnChange(false))
	require.NoError(t, eng.SetValue("newPassword", "abc123"))
	require.NoError(t, eng.SetValue("confirmPassword", "zzz"))

	assert.True(t, eng.IsValid())
	assert.False(t, eng.ValidateForm())
}

func TestEngine_BlurValidation(t *testing.T) {
	t.Parallel()

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()
		eng := newEngine(t, contactFields(), form.WithValidateOnChange(false))
		require.NoError(t, eng.MarkFieldAsTouched("name"))
		assert.True(t, eng.IsFieldTouched("name"))
		assert.Equal(t, "field is required", eng.FieldError("name"))
	})

	t.Run("both toggles disabled", func(t *testing.T) {
		t.Parallel()
		eng := newEngine(t, contactFields(), form.WithValidateOnChange(false), form.WithValidateOnBlur(false))
		require.NoError(t, eng.SetValue("email", "nope"))
		require.NoError(t, eng.MarkFieldAsTouched("email"))
		assert.True(t, eng.IsValid())

		err := eng.HandleSubmit(context.Background())
		require.Error(t, err)
		assert.True(t, eng.HasFieldError("email"))
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		eng := newEngine(t, contactFields())
		assert.True(t, errors.Is(eng.MarkFieldAsTouched("zip"), form.ErrUnknownField))
	})
}

// manualScheduler holds tasks until the test runs them.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []func()
}

func (s *manualScheduler) Schedule(task func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, task)
}

func (s *manualScheduler) runAll() {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()
	for _, task := range tasks {
		task()
	}
}

func TestEngine_DeferredValidationReadsLatestValues(t *testing.T) {
	t.Parallel()

	sched := &manualScheduler{}
	eng := newEngine(t, contactFields(), form.WithScheduler(sched))

	require.NoError(t, eng.SetValue("email", "a@b"))
	assert.Equal(t, "a@b", eng.Value("email"), "value is committed before validation")
	assert.True(t, eng.IsValid(), "validation has not run yet")

	require.NoError(t, eng.SetValue("email", "guest@example.mx"))
	sched.runAll()

	assert.True(t, eng.IsValid(), "both queued tasks see the latest value")
}

func TestEngine_ResetForm(t *testing.T) {
	t.Parallel()

	sched := &manualScheduler{}
	eng := newEngine(t, contactFields(),
		form.WithScheduler(sched),
		form.WithInitialValues(map[string]any{"name": "Ana"}),
	)
	initial := eng.State()

	require.NoError(t, eng.SetValue("name", ""))
	require.NoError(t, eng.MarkFieldAsTouched("email"))
	eng.SetError("email", "already registered")
	eng.ResetForm()

	// Tasks queued before the reset must not leak errors into the fresh form.
	sched.runAll()

	if diff := cmp.Diff(initial, eng.State()); diff != "" {
		t.Fatalf("reset did not restore initial state (-want +got):\n%s", diff)
	}
	assert.Empty(t, cmp.Diff(eng.InitialState(), eng.State()))
}

func TestEngine_ServerErrors(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, contactFields(), form.WithInitialValues(map[string]any{
		"name":  "Ana",
		"email": "ana@example.mx",
	}))

	eng.SetError("email", "email already registered")
	eng.SetError("email", "email is blocked")
	require.Len(t, eng.Errors(), 1)
	assert.Equal(t, "email is blocked", eng.FieldError("email"))
	assert.Equal(t, validator.TypeServer, eng.Errors()[0].Type)

	// A successful local validation clears the server error.
	assert.True(t, eng.ValidateField("email"))
	assert.False(t, eng.HasFieldError("email"))

	eng.SetServerErrors(validator.ValidationErrors{
		{Field: "name", Message: "name not allowed"},
		{Field: "phone", Message: "phone not reachable"},
	})
	assert.Equal(t, []string{"name", "phone"}, eng.Errors().Fields())

	eng.ClearError("name")
	assert.Equal(t, []string{"phone"}, eng.Errors().Fields())

	eng.ClearAllErrors()
	assert.True(t, eng.IsValid())
}

func TestEngine_HandleSubmit(t *testing.T) {
	t.Parallel()

	t.Run("invalid form skips handler", func(t *testing.T) {
		t.Parallel()

		called := false
		eng := newEngine(t, contactFields(), form.WithSubmitHandler(func(context.Context, map[string]any) error {
			called = true
			return nil
		}))

		err := eng.HandleSubmit(context.Background())
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))
		assert.Equal(t, []string{"name", "email"}, validator.ExtractValidationErrors(err).Fields())
		assert.False(t, called)
		assert.False(t, eng.IsSubmitting())
		assert.False(t, eng.State().IsSubmitting)
		for _, f := range []string{"name", "email", "phone"} {
			assert.True(t, eng.IsFieldTouched(f))
		}
	})

	t.Run("valid form passes values", func(t *testing.T) {
		t.Parallel()

		var got map[string]any
		eng := newEngine(t, contactFields(), form.WithSubmitHandler(func(_ context.Context, values map[string]any) error {
			got = values
			return nil
		}))
		require.NoError(t, eng.SetValue("name", "Ana"))
		require.NoError(t, eng.SetValue("email", "ana@example.mx"))

		require.NoError(t, eng.HandleSubmit(context.Background()))
		assert.Equal(t, "ana@example.mx", got["email"])

		got["email"] = "changed"
		assert.Equal(t, "ana@example.mx", eng.Value("email"), "handler receives a copy")
	})

	t.Run("handler error is returned and state retained", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("service unavailable")
		eng := newEngine(t, contactFields(), form.WithSubmitHandler(func(context.Context, map[string]any) error {
			return boom
		}))
		require.NoError(t, eng.SetValue("name", "Ana"))
		require.NoError(t, eng.SetValue("email", "ana@example.mx"))

		err := eng.HandleSubmit(context.Background())
		assert.ErrorIs(t, err, boom)
		assert.False(t, eng.IsSubmitting())
		assert.Equal(t, "Ana", eng.Value("name"))
		assert.True(t, eng.IsFieldTouched("email"))
	})

	t.Run("concurrent submit is rejected", func(t *testing.T) {
		t.Parallel()

		entered := make(chan struct{})
		release := make(chan struct{})
		eng := newEngine(t, contactFields(),
			form.WithInitialValues(map[string]any{"name": "Ana", "email": "ana@example.mx"}),
			form.WithSubmitHandler(func(context.Context, map[string]any) error {
				close(entered)
				<-release
				return nil
			}),
		)

		done := make(chan error, 1)
		go func() { done <- eng.HandleSubmit(context.Background()) }()

		select {
		case <-entered:
		case <-time.After(time.Second):
			t.Fatal("submit handler was not called")
		}
		assert.True(t, eng.IsSubmitting())
		assert.ErrorIs(t, eng.HandleSubmit(context.Background()), form.ErrSubmitInProgress)

		close(release)
		require.NoError(t, <-done)
		assert.False(t, eng.IsSubmitting())
	})

	t.Run("handler panic still clears submitting", func(t *testing.T) {
		t.Parallel()

		eng := newEngine(t, contactFields(),
			form.WithInitialValues(map[string]any{"name": "Ana", "email": "ana@example.mx"}),
			form.WithSubmitHandler(func(context.Context, map[string]any) error { panic("boom") }),
		)

		assert.Panics(t, func() { _ = eng.HandleSubmit(context.Background()) })
		assert.False(t, eng.IsSubmitting())
	})
}

func TestEngine_TouchAll(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, contactFields())
	eng.TouchAll()
	for _, f := range eng.Fields() {
		assert.True(t, eng.IsFieldTouched(f.Name))
	}
	assert.True(t, eng.IsValid(), "touching all fields does not validate")
}

func TestEngine_Translations(t *testing.T) {
	t.Parallel()

	tr, err := i18n.NewTranslator(context.Background(), form.LocalesAdapter())
	require.NoError(t, err)

	eng := newEngine(t, []form.FieldConfig{
		{Name: "name", Label: "Nombre", Rules: []validator.FieldRule{validator.IsRequired(), validator.HasMinLength(3)}},
		{Name: "zip", Rules: []validator.FieldRule{
			validator.MatchesPattern(regexp.MustCompile(`^\d{5}$`)).WithMessage("five digits please"),
		}},
	}, form.WithTranslator(tr, "es-MX"))

	eng.ValidateField("name")
	assert.Equal(t, "Nombre es obligatorio", eng.FieldError("name"))

	require.NoError(t, eng.SetValue("name", "Al"))
	assert.Equal(t, "debe tener al menos 3 caracteres", eng.FieldError("name"))

	require.NoError(t, eng.SetValue("zip", "123"))
	assert.Equal(t, "five digits please", eng.FieldError("zip"), "overrides are never translated")
}
