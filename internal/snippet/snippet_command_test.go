package snippet

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type recordingIndexer struct {
	paths []string
}

func (r *recordingIndexer) IndexFiles(ctx context.Context, paths []string) error {
	r.paths = append(r.paths, paths...)
	return nil
}

func TestMessageWriter_CreatesLocaleFile(t *testing.T) {
	root := t.TempDir()
	files := &recordingIndexer{}
	writer := NewMessageWriter(root, nil, files)

	path, err := writer.SetMessage(context.Background(), SetMessageParams{
		Locale: "de",
		Key:    "schemas.text.size",
		Text:   "Schriftgröße",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "locales", "de.json"), path)
	assert.Equal(t, []string{path}, files.paths)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Schriftgröße", gjson.GetBytes(content, "schemas.text.size").String())
}

func TestMessageWriter_KeepsFlatKeys(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "i18n", "fr.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"schemas.left": "Gauche"}`), 0o644))

	writer := NewMessageWriter(root, nil, nil)

	_, err := writer.SetMessage(context.Background(), SetMessageParams{
		Locale: "fr",
		Key:    "schemas.left",
		Text:   "À gauche",
		File:   filepath.Join("i18n", "fr.json"),
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "À gauche", gjson.GetBytes(content, `schemas\.left`).String())
	assert.False(t, gjson.GetBytes(content, "schemas").Exists())
}

func TestMessageWriter_UsesIndexedFile(t *testing.T) {
	idx := indexTestdata(t)

	root := t.TempDir()
	writer := NewMessageWriter(root, idx, nil)

	target, err := writer.targetFile(SetMessageParams{Locale: "fr", Key: "a"})
	require.NoError(t, err)
	assert.Equal(t, "testdata/project/i18n/fr.json", target)

	target, err = writer.targetFile(SetMessageParams{Locale: "es", Key: "a"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "locales", "es.json"), target)
}

func TestMessageWriter_InvalidParams(t *testing.T) {
	writer := NewMessageWriter(t.TempDir(), nil, nil)

	_, err := writer.SetMessage(context.Background(), SetMessageParams{Key: "a"})
	assert.ErrorIs(t, err, ErrInvalidMessage)

	_, err = writer.SetMessage(context.Background(), SetMessageParams{Locale: "../x", Key: "a"})
	assert.ErrorIs(t, err, ErrInvalidMessage)

	_, err = writer.SetMessage(context.Background(), SetMessageParams{Locale: "de", Key: "a", File: "themes/de.json"})
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestMessageWriter_RejectsFilesOutsideProject(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "project")
	require.NoError(t, os.MkdirAll(root, 0o755))
	writer := NewMessageWriter(root, nil, nil)

	tests := map[string]string{
		"relative escape":  filepath.Join("..", "outside", "locales", "de.json"),
		"nested escape":    filepath.Join("locales", "..", "..", "outside", "locales", "de.json"),
		"absolute outside": filepath.Join(base, "outside", "locales", "de.json"),
	}

	for name, file := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := writer.SetMessage(context.Background(), SetMessageParams{
				Locale: "de",
				Key:    "a",
				Text:   "b",
				File:   file,
			})
			assert.ErrorIs(t, err, ErrInvalidMessage)
		})
	}

	assert.NoDirExists(t, filepath.Join(base, "outside"))
}

func TestMessageWriter_AbsoluteFileInsideProject(t *testing.T) {
	root := t.TempDir()
	writer := NewMessageWriter(root, nil, nil)

	file := filepath.Join(root, "i18n", "de.json")
	path, err := writer.SetMessage(context.Background(), SetMessageParams{
		Locale: "de",
		Key:    "schemas.left",
		Text:   "Links",
		File:   file,
	})
	require.NoError(t, err)
	assert.Equal(t, file, path)
	assert.FileExists(t, file)
}

func TestMessageWriter_RejectsLocaleMismatch(t *testing.T) {
	root := t.TempDir()
	writer := NewMessageWriter(root, nil, nil)

	_, err := writer.SetMessage(context.Background(), SetMessageParams{
		Locale: "de",
		Key:    "schemas.left",
		Text:   "Links",
		File:   filepath.Join("locales", "fr.json"),
	})
	assert.ErrorIs(t, err, ErrInvalidMessage)
	assert.NoFileExists(t, filepath.Join(root, "locales", "fr.json"))
}
