package i18n

import "errors"

var (
	ErrNilAdapter        = errors.New("translation adapter is nil")
	ErrEmptyLanguageCode = errors.New("empty language code found")
	ErrNilTranslations   = errors.New("nil translations map for language")

	ErrJSONParsingCancelled = errors.New("json parsing cancelled")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON content")
	ErrYAMLParsingCancelled = errors.New("yaml parsing cancelled")
	ErrFailedToParseYAML    = errors.New("failed to parse YAML content")
	ErrInvalidStructure     = errors.New("invalid translation structure")
	ErrNoTranslations       = errors.New("no valid translations found")

	ErrLoadingTranslationsCancelled = errors.New("loading translations cancelled")
	ErrFailedToReadDirectory        = errors.New("failed to read translation directory")
	ErrFailedToReadFile             = errors.New("failed to read translation file")
	ErrFailedToParseFile            = errors.New("failed to parse translation file")
	ErrNoTranslationFiles           = errors.New("no translation files found")
)
