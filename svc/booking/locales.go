package booking

import (
	"context"
	"embed"

	"github.com/dmitrymomot/reservekit/pkg/form"
	"github.com/dmitrymomot/reservekit/pkg/i18n"
)

//go:embed locales/*.yaml
var locales embed.FS

// LocalesAdapter loads the step gate messages and contact field labels.
func LocalesAdapter() i18n.TranslationAdapter {
	return i18n.NewFSAdapter(i18n.NewYAMLParser(), locales, "locales")
}

// NewTranslator loads the booking messages together with the form rule
// messages they are shown next to.
func NewTranslator(ctx context.Context, opts ...i18n.Option) (*i18n.Translator, error) {
	return i18n.NewTranslator(ctx, i18n.MergeAdapters(form.LocalesAdapter(), LocalesAdapter()), opts...)
}
