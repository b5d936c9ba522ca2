package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
)

// TranslationAdapter loads translations keyed by language.
type TranslationAdapter interface {
	Load(ctx context.Context) (map[string]map[string]any, error)
}

// MapAdapter serves translations from an in-memory map.
type MapAdapter struct {
	Data map[string]map[string]any
}

// Load implements TranslationAdapter.
func (a *MapAdapter) Load(_ context.Context) (map[string]map[string]any, error) {
	if a.Data == nil {
		return make(map[string]map[string]any), nil
	}
	return a.Data, nil
}

// FSAdapter loads every file in a directory of an fs.FS (usually an embed.FS)
// that the parser understands. Files are merged per language in name order.
type FSAdapter struct {
	parser Parser
	fsys   fs.FS
	dir    string
}

// NewFSAdapter returns nil if parser is nil or dir is empty.
func NewFSAdapter(parser Parser, fsys fs.FS, dir string) *FSAdapter {
	if parser == nil || fsys == nil || dir == "" {
		return nil
	}
	return &FSAdapter{parser: parser, fsys: fsys, dir: dir}
}

// Load implements TranslationAdapter.
func (a *FSAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	if a == nil {
		return nil, ErrNilAdapter
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingTranslationsCancelled, err)
	}

	entries, err := fs.ReadDir(a.fsys, a.dir)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadDirectory, err)
	}

	all := make(map[string]map[string]any)
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !a.parser.SupportsFileExtension(path.Ext(entry.Name())) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(ErrLoadingTranslationsCancelled, err)
		}

		name := path.Join(a.dir, entry.Name())
		content, err := fs.ReadFile(a.fsys, name)
		if err != nil {
			return nil, errors.Join(ErrFailedToReadFile, fmt.Errorf("%s: %w", name, err))
		}
		if len(content) == 0 {
			continue
		}

		parsed, err := a.parser.Parse(ctx, string(content))
		if err != nil {
			return nil, errors.Join(ErrFailedToParseFile, fmt.Errorf("%s: %w", name, err))
		}
		for lang, messages := range parsed {
			if all[lang] == nil {
				all[lang] = make(map[string]any, len(messages))
			}
			maps.Copy(all[lang], messages)
		}
		loaded++
	}

	if loaded == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTranslationFiles, a.dir)
	}
	return all, nil
}

// MergeAdapters loads each adapter in order and merges the results per
// language. Later adapters win on conflicting top level keys.
func MergeAdapters(adapters ...TranslationAdapter) TranslationAdapter {
	return mergedAdapter(adapters)
}

type mergedAdapter []TranslationAdapter

func (m mergedAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	all := make(map[string]map[string]any)
	for _, a := range m {
		if a == nil {
			return nil, ErrNilAdapter
		}
		data, err := a.Load(ctx)
		if err != nil {
			return nil, err
		}
		for lang, messages := range data {
			if all[lang] == nil {
				all[lang] = make(map[string]any, len(messages))
			}
			maps.Copy(all[lang], messages)
		}
	}
	return all, nil
}
