package i18n

import (
	"io"
	"log/slog"
)

// Option configures a Translator.
type Option func(*Translator)

// WithDefaultLanguage sets the language consulted when a key is missing in
// the requested one.
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if lang != "" {
			t.defaultLang = lang
		}
	}
}

// WithFallbackToKey controls whether T returns the key for missing messages.
// Enabled by default.
func WithFallbackToKey(fallback bool) Option {
	return func(t *Translator) {
		t.fallbackToKey = fallback
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithMissingTranslationsLogging logs a warning for every missing key.
func WithMissingTranslationsLogging(log bool) Option {
	return func(t *Translator) {
		t.missingLogMode = log
	}
}

func WithNoLogging() Option {
	return func(t *Translator) {
		t.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		t.missingLogMode = false
	}
}
