package indexer

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// mockIndexer records which files it saw and whether they came with a syntax tree
type mockIndexer struct {
	mu           sync.Mutex
	indexedFiles map[string]bool
	withTree     map[string]bool
	indexCalls   int
}

func newMockIndexer() *mockIndexer {
	return &mockIndexer{
		indexedFiles: make(map[string]bool),
		withTree:     make(map[string]bool),
	}
}

func (m *mockIndexer) Index(path string, node *tree_sitter.Node, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexedFiles[path] = true
	m.withTree[path] = node != nil
	m.indexCalls++
	return nil
}

func (m *mockIndexer) RemovedFiles(paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, path := range paths {
		delete(m.indexedFiles, path)
	}
	return nil
}

func (m *mockIndexer) has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexedFiles[path]
}

func (m *mockIndexer) ID() string   { return "mock" }
func (m *mockIndexer) Close() error { return nil }
func (m *mockIndexer) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexedFiles = make(map[string]bool)
	return nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestScanner(t *testing.T, root string) (*FileScanner, *mockIndexer) {
	t.Helper()

	fs, err := NewFileScanner(root, filepath.Join(t.TempDir(), "files.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = fs.Close() })

	mock := newMockIndexer()
	fs.AddIndexer(mock)
	return fs, mock
}

func TestFileScanner_IndexAll_SkipDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "themes", "brand.theme.json"), `{"palette": {}}`)
	writeFile(t, filepath.Join(root, "themes", "print.theme.yaml"), "palette: {}\n")
	writeFile(t, filepath.Join(root, "locales", "de.json"), `{"hexColorPrompt": "Hex"}`)
	writeFile(t, filepath.Join(root, "README.md"), "# readme")
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "x.theme.json"), `{}`)
	writeFile(t, filepath.Join(root, "nested", "dist", "y.theme.json"), `{}`)
	writeFile(t, filepath.Join(root, "custom", "z.theme.json"), `{}`)

	fs, mock := newTestScanner(t, root)
	fs.SkipDirs("custom")

	var updated []string
	fs.SetOnUpdate(func(paths []string) { updated = append(updated, paths...) })

	require.NoError(t, fs.IndexAll(context.Background()))

	assert.True(t, mock.has(filepath.Join(root, "themes", "brand.theme.json")))
	assert.True(t, mock.has(filepath.Join(root, "themes", "print.theme.yaml")))
	assert.True(t, mock.has(filepath.Join(root, "locales", "de.json")))
	assert.False(t, mock.has(filepath.Join(root, "README.md")))
	assert.False(t, mock.has(filepath.Join(root, "node_modules", "pkg", "x.theme.json")))
	assert.False(t, mock.has(filepath.Join(root, "nested", "dist", "y.theme.json")))
	assert.False(t, mock.has(filepath.Join(root, "custom", "z.theme.json")))
	assert.Len(t, updated, 3)

	// JSON files come with a syntax tree, YAML files without
	assert.True(t, mock.withTree[filepath.Join(root, "themes", "brand.theme.json")])
	assert.False(t, mock.withTree[filepath.Join(root, "themes", "print.theme.yaml")])
}

func TestFileScanner_UnchangedFilesAreSkipped(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "brand.theme.json")
	writeFile(t, path, `{"palette": {}}`)

	fs, mock := newTestScanner(t, root)

	require.NoError(t, fs.IndexAll(context.Background()))
	require.NoError(t, fs.IndexAll(context.Background()))
	assert.Equal(t, 1, mock.indexCalls)

	// A changed file is indexed again
	writeFile(t, path, `{"palette": {"primary": {"main": "#fff"}}}`)
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))
	require.NoError(t, fs.IndexFiles(context.Background(), []string{path}))
	assert.Equal(t, 2, mock.indexCalls)

	// Clearing the hashes forces a full reindex
	require.NoError(t, fs.ClearHashes())
	require.NoError(t, fs.IndexAll(context.Background()))
	assert.Equal(t, 3, mock.indexCalls)
}

func TestFileScanner_RemoveFiles(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "brand.theme.json")
	writeFile(t, path, `{"palette": {}}`)

	fs, mock := newTestScanner(t, root)
	require.NoError(t, fs.IndexAll(context.Background()))
	require.True(t, mock.has(path))

	var removed []string
	fs.SetOnUpdate(func(paths []string) { removed = paths })

	require.NoError(t, fs.RemoveFiles(context.Background(), []string{path}))
	assert.False(t, mock.has(path))
	assert.Equal(t, []string{path}, removed)

	// The file state is forgotten, so it is indexed again
	require.NoError(t, fs.IndexFiles(context.Background(), []string{path}))
	assert.True(t, mock.has(path))
}

func TestFileScanner_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "brand.theme.json"), `{}`)

	fs, _ := newTestScanner(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, fs.IndexFiles(ctx, []string{filepath.Join(root, "brand.theme.json")}), context.Canceled)
	assert.ErrorIs(t, fs.RemoveFiles(ctx, []string{filepath.Join(root, "brand.theme.json")}), context.Canceled)
}

func TestFileScanner_Watcher(t *testing.T) {
	root := t.TempDir()
	fs, mock := newTestScanner(t, root)

	updates := make(chan []string, 10)
	fs.SetOnUpdate(func(paths []string) { updates <- paths })

	require.NoError(t, fs.StartWatcher())

	path := filepath.Join(root, "brand.theme.json")
	writeFile(t, path, `{"palette": {}}`)

	select {
	case paths := <-updates:
		assert.Contains(t, paths, path)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not pick up the new file")
	}
	assert.True(t, mock.has(path))

	fs.StopWatcher()
}
