package i18n

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no language was configured or requested.
const DefaultLanguage = "en"

// Translator resolves message keys into localized strings.
// It is safe for concurrent use.
type Translator struct {
	translations   map[string]map[string]any
	defaultLang    string
	fallbackToKey  bool
	missingLogMode bool
	logger         *slog.Logger
	mu             sync.RWMutex
	matcher        language.Matcher
	tags           []language.Tag
}

// NewTranslator loads translations through adapter and applies options.
func NewTranslator(ctx context.Context, adapter TranslationAdapter, options ...Option) (*Translator, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}

	t := &Translator{
		defaultLang:   DefaultLanguage,
		fallbackToKey: true,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, option := range options {
		option(t)
	}

	translations, err := adapter.Load(ctx)
	if err != nil {
		return nil, err
	}
	for lang, messages := range translations {
		if lang == "" {
			return nil, ErrEmptyLanguageCode
		}
		if messages == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilTranslations, lang)
		}
	}

	t.translations = translations
	t.buildMatcher()

	t.logger.DebugContext(ctx, "translations loaded", slog.Any("languages", t.supportedLanguages()))
	return t, nil
}

// buildMatcher prepares the language matcher with the default language first,
// so that it wins when nothing else matches.
func (t *Translator) buildMatcher() {
	t.tags = t.tags[:0]
	if tag, err := language.Parse(t.defaultLang); err == nil {
		t.tags = append(t.tags, tag)
	}
	for _, lang := range t.supportedLanguages() {
		if lang == t.defaultLang {
			continue
		}
		if tag, err := language.Parse(lang); err == nil {
			t.tags = append(t.tags, tag)
		}
	}
	if len(t.tags) > 0 {
		t.matcher = language.NewMatcher(t.tags)
	}
}

func (t *Translator) supportedLanguages() []string {
	langs := make([]string, 0, len(t.translations))
	for lang := range t.translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// SupportedLanguages returns the loaded language codes, sorted.
func (t *Translator) SupportedLanguages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.supportedLanguages()
}

// DefaultLanguage returns the language used when a key is missing elsewhere.
func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}

// Match picks the loaded language that best serves the given device or
// Accept-Language style tags, e.g. "es-MX" resolves to "es".
func (t *Translator) Match(preferred ...string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.matcher == nil {
		return t.defaultLang
	}

	tags := make([]language.Tag, 0, len(preferred))
	for _, p := range preferred {
		if tag, err := language.Parse(p); err == nil {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return t.defaultLang
	}

	_, idx, conf := t.matcher.Match(tags...)
	if conf == language.No {
		return t.defaultLang
	}
	base, _ := t.tags[idx].Base()
	if _, ok := t.translations[t.tags[idx].String()]; ok {
		return t.tags[idx].String()
	}
	return base.String()
}

// HasTranslation reports whether key exists for exactly lang.
func (t *Translator) HasTranslation(lang, key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	messages, ok := t.translations[lang]
	if !ok {
		return false
	}
	_, ok = lookup(messages, key)
	return ok
}

// T translates key into lang. args are name/value pairs substituted into
// %{name} placeholders. Lookup falls back from lang to its base language,
// then to the default language, then to the key itself when enabled.
func (t *Translator) T(lang, key string, args ...string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, candidate := range t.candidates(lang) {
		messages, ok := t.translations[candidate]
		if !ok {
			continue
		}
		if val, ok := lookup(messages, key); ok {
			if s, ok := val.(string); ok {
				return substitute(s, args)
			}
		}
	}

	if t.missingLogMode {
		t.logger.Warn("missing translation", slog.String("lang", lang), slog.String("key", key))
	}
	if t.fallbackToKey {
		return substitute(key, args)
	}
	return ""
}

// Tc translates key into the language stored in ctx by SetLocale.
func (t *Translator) Tc(ctx context.Context, key string, args ...string) string {
	return t.T(GetLocale(ctx), key, args...)
}

func (t *Translator) candidates(lang string) []string {
	out := make([]string, 0, 3)
	if lang != "" {
		out = append(out, lang)
		if base, _, ok := strings.Cut(lang, "-"); ok && base != "" {
			out = append(out, base)
		}
	}
	if lang != t.defaultLang {
		out = append(out, t.defaultLang)
	}
	return out
}

// lookup walks a nested map using a dot separated key, e.g. "validation.required".
func lookup(m map[string]any, key string) (any, bool) {
	current := m
	parts := strings.Split(key, ".")
	for i, part := range parts {
		val, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return val, true
		}

		switch next := val.(type) {
		case map[string]any:
			current = next
		case map[any]any:
			current = make(map[string]any, len(next))
			for k, v := range next {
				if ks, ok := k.(string); ok {
					current[ks] = v
				}
			}
		default:
			return nil, false
		}
	}
	return nil, false
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// substitute replaces %{name} placeholders. Unknown placeholders are kept.
func substitute(tmpl string, args []string) string {
	if len(args) < 2 || !strings.Contains(tmpl, "%{") {
		return tmpl
	}
	params := make(map[string]string, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		params[args[i]] = args[i+1]
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		if val, ok := params[match[2:len(match)-1]]; ok {
			return val
		}
		return match
	})
}

// IsLanguageNotSupported reports whether err is an unsupported language error.
func IsLanguageNotSupported(err error) bool {
	var target *ErrLanguageNotSupported
	return errors.As(err, &target)
}

// ErrLanguageNotSupported indicates that the requested language is not loaded.
type ErrLanguageNotSupported struct {
	Lang string
}

func (e *ErrLanguageNotSupported) Error() string {
	return fmt.Sprintf("language not supported: %s", e.Lang)
}

// Require returns an error when lang has no loaded translations.
func (t *Translator) Require(lang string) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if _, ok := t.translations[lang]; !ok {
		return &ErrLanguageNotSupported{Lang: lang}
	}
	return nil
}
