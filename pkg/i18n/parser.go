package i18n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parser decodes a translation file into messages keyed by language.
type Parser interface {
	Parse(ctx context.Context, content string) (map[string]map[string]any, error)
	// SupportsFileExtension accepts the extension with or without the leading dot.
	SupportsFileExtension(ext string) bool
}

// NewParserForFile picks a parser by file extension, or returns nil.
func NewParserForFile(filename string) Parser {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(filename), ".")) {
	case "json":
		return NewJSONParser()
	case "yaml", "yml":
		return NewYAMLParser()
	default:
		return nil
	}
}

// YAMLParser reads files shaped as `lang: {key: message}`.
type YAMLParser struct{}

func NewYAMLParser() *YAMLParser { return &YAMLParser{} }

func (p *YAMLParser) Parse(ctx context.Context, content string) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrYAMLParsingCancelled, err)
	}

	var data map[string]any
	if err := yaml.Unmarshal([]byte(content), &data); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	return byLanguage(data)
}

func (p *YAMLParser) SupportsFileExtension(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	return strings.EqualFold(ext, "yaml") || strings.EqualFold(ext, "yml")
}

// JSONParser reads files shaped as {"lang": {"key": "message"}}.
type JSONParser struct{}

func NewJSONParser() *JSONParser { return &JSONParser{} }

func (p *JSONParser) Parse(ctx context.Context, content string) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrJSONParsingCancelled, err)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}
	return byLanguage(data)
}

func (p *JSONParser) SupportsFileExtension(ext string) bool {
	return strings.EqualFold(strings.TrimPrefix(ext, "."), "json")
}

func byLanguage(data map[string]any) (map[string]map[string]any, error) {
	result := make(map[string]map[string]any, len(data))
	for lang, val := range data {
		messages, ok := val.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: language %q: expected map, got %T", ErrInvalidStructure, lang, val)
		}
		result[lang] = messages
	}
	if len(result) == 0 {
		return nil, ErrNoTranslations
	}
	return result, nil
}
