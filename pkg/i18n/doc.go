// Package i18n translates message keys for the booking client.
//
// Translations are loaded once through a TranslationAdapter (MapAdapter for
// tests, FSAdapter for embedded YAML or JSON files) and looked up with T using
// dot separated keys. Placeholders use the %{name} form and are filled from
// name/value argument pairs:
//
//	tr, err := i18n.NewTranslator(ctx, i18n.NewFSAdapter(i18n.NewYAMLParser(), locales, "locales"))
//	if err != nil {
//		return err
//	}
//	msg := tr.T("es-MX", "validation.min_length", "min", "3")
//
// A missing key falls back to the base language ("es-MX" to "es"), then to the
// default language, then to the key itself. Match maps device locales onto
// the loaded languages using golang.org/x/text/language.
package i18n
