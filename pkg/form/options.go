package form

import (
	"context"
	"log/slog"
	"maps"

	"github.com/dmitrymomot/reservekit/pkg/i18n"
)

// SubmitFunc receives a copy of the form values once the form is valid.
type SubmitFunc func(ctx context.Context, values map[string]any) error

// Option configures an Engine.
type Option func(*Engine)

// WithValidateOnChange toggles validation after SetValue. Enabled by default.
func WithValidateOnChange(enabled bool) Option {
	return func(e *Engine) {
		e.validateOnChange = enabled
	}
}

// WithValidateOnBlur toggles validation after MarkFieldAsTouched. Enabled by default.
func WithValidateOnBlur(enabled bool) Option {
	return func(e *Engine) {
		e.validateOnBlur = enabled
	}
}

// WithInitialValues seeds the form. The values are also what ResetForm restores.
func WithInitialValues(values map[string]any) Option {
	return func(e *Engine) {
		maps.Copy(e.initialValues, values)
	}
}

func WithSubmitHandler(fn SubmitFunc) Option {
	return func(e *Engine) {
		e.onSubmit = fn
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithScheduler replaces the default queue, e.g. with a UI dispatcher.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.scheduler = s
		}
	}
}

// WithTranslator renders default rule messages in lang.
func WithTranslator(tr *i18n.Translator, lang string) Option {
	return func(e *Engine) {
		e.translator = tr
		e.lang = lang
	}
}
