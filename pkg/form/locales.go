package form

import (
	"embed"

	"github.com/dmitrymomot/reservekit/pkg/i18n"
)

// Locales holds the bundled translations of the default rule messages.
//
//go:embed locales/*.yaml
var Locales embed.FS

// LocalesAdapter loads the bundled rule messages.
func LocalesAdapter() i18n.TranslationAdapter {
	return i18n.NewFSAdapter(i18n.NewYAMLParser(), Locales, "locales")
}
