package snippet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var ErrInvalidMessage = errors.New("invalid message")

// FileIndexer reindexes files after they were written
type FileIndexer interface {
	IndexFiles(ctx context.Context, paths []string) error
}

// SetMessageParams describes a message to write. File is optional and must
// be a locale file of Locale inside the project; without it the first indexed
// file of the locale is used, or locales/<locale>.json is created in the
// project root.
type SetMessageParams struct {
	Locale string `json:"locale"`
	Key    string `json:"key"`
	Text   string `json:"text"`
	File   string `json:"file,omitempty"`
}

// MessageWriter edits project locale files
type MessageWriter struct {
	projectRoot string
	snippets    *SnippetIndexer
	files       FileIndexer
}

func NewMessageWriter(projectRoot string, snippets *SnippetIndexer, files FileIndexer) *MessageWriter {
	return &MessageWriter{
		projectRoot: projectRoot,
		snippets:    snippets,
		files:       files,
	}
}

// SetMessage writes the message and reindexes the file. It returns the path written.
func (w *MessageWriter) SetMessage(ctx context.Context, params SetMessageParams) (string, error) {
	if params.Locale == "" || params.Key == "" {
		return "", fmt.Errorf("%w: locale and key are required", ErrInvalidMessage)
	}
	if strings.ContainsAny(params.Locale, `/\`) {
		return "", fmt.Errorf("%w: bad locale %q", ErrInvalidMessage, params.Locale)
	}

	target, err := w.targetFile(params)
	if err != nil {
		return "", err
	}

	fileContent, err := os.ReadFile(target)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return "", fmt.Errorf("failed to create locale directory: %w", err)
		}
		fileContent = []byte("{}")
	case err != nil:
		return "", fmt.Errorf("failed to read file %s: %w", target, err)
	}

	newFile, err := sjson.SetBytes(fileContent, messagePath(fileContent, params.Key), params.Text)
	if err != nil {
		return "", fmt.Errorf("failed to set message %s in file %s: %w", params.Key, target, err)
	}

	if err := os.WriteFile(target, pretty.Pretty(newFile), 0o644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", target, err)
	}

	if w.files != nil {
		if err := w.files.IndexFiles(ctx, []string{target}); err != nil {
			return "", fmt.Errorf("failed to index files: %w", err)
		}
	}

	return target, nil
}

func (w *MessageWriter) targetFile(params SetMessageParams) (string, error) {
	if params.File != "" {
		target := params.File
		if !filepath.IsAbs(target) {
			target = filepath.Join(w.projectRoot, target)
		}
		if !w.inProject(target) {
			return "", fmt.Errorf("%w: %s is outside the project", ErrInvalidMessage, params.File)
		}

		locale, ok := LocaleFromPath(target)
		if !ok {
			return "", fmt.Errorf("%w: %s is not a locale file", ErrInvalidMessage, params.File)
		}
		if locale != params.Locale {
			return "", fmt.Errorf("%w: %s holds locale %s, not %s", ErrInvalidMessage, params.File, locale, params.Locale)
		}
		return target, nil
	}

	if w.snippets != nil {
		files, err := w.snippets.LocaleFiles(params.Locale)
		if err != nil {
			return "", err
		}
		if len(files) > 0 {
			return files[0], nil
		}
	}

	return filepath.Join(w.projectRoot, "locales", params.Locale+".json"), nil
}

// inProject reports whether path lies inside the project root
func (w *MessageWriter) inProject(path string) bool {
	rel, err := filepath.Rel(w.projectRoot, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// messagePath keeps a flat "a.b" key flat when the file already uses it,
// otherwise the key is written as nested objects.
func messagePath(document []byte, key string) string {
	escaped := gjson.Escape(key)
	if escaped != key && gjson.GetBytes(document, escaped).Exists() {
		return escaped
	}
	return key
}
