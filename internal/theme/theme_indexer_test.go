package theme

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeIndexer(t *testing.T) {
	tempDir := t.TempDir()

	indexer, err := NewThemeIndexer(tempDir)
	require.NoError(t, err)
	defer func() { _ = indexer.Close() }()

	jsonBytes, err := os.ReadFile("testdata/brand.theme.json")
	require.NoError(t, err)
	tree := parseJSON(t, jsonBytes)

	jsonPath := "testdata/brand.theme.json"
	require.NoError(t, indexer.Index(jsonPath, tree.RootNode(), jsonBytes))

	yamlBytes, err := os.ReadFile("testdata/print.theme.yaml")
	require.NoError(t, err)
	yamlPath := "testdata/print.theme.yaml"
	require.NoError(t, indexer.Index(yamlPath, nil, yamlBytes))

	// Files that are not themes are ignored
	require.NoError(t, indexer.Index("testdata/package.json", tree.RootNode(), jsonBytes))

	brand, err := indexer.GetTheme("brand")
	require.NoError(t, err)
	assert.Equal(t, jsonPath, brand.File)
	assert.Equal(t, Revision(jsonBytes), brand.Revision)
	assert.Equal(t, String("#e3007b"), Resolve("#secondary.main#", brand, ""))

	themes, err := indexer.ListThemes()
	require.NoError(t, err)
	require.Len(t, themes, 2)
	assert.Equal(t, "brand", themes[0].Name)
	assert.Equal(t, "print", themes[1].Name)

	// The empty null branch survives storage
	assert.Equal(t, String("F"), Resolve("#divider#", &themes[1], "F"))

	_, err = indexer.GetTheme("missing")
	assert.ErrorIs(t, err, ErrThemeNotFound)

	require.NoError(t, indexer.RemovedFiles([]string{jsonPath}))
	_, err = indexer.GetTheme("brand")
	assert.ErrorIs(t, err, ErrThemeNotFound)

	require.NoError(t, indexer.Clear())
	themes, err = indexer.ListThemes()
	require.NoError(t, err)
	assert.Empty(t, themes)
}

func TestThemeIndexer_JSONWithoutTree(t *testing.T) {
	indexer, err := NewThemeIndexer(t.TempDir())
	require.NoError(t, err)
	defer func() { _ = indexer.Close() }()

	assert.Error(t, indexer.Index("brand.theme.json", nil, []byte(`{}`)))
}

func TestRevision(t *testing.T) {
	a := Revision([]byte(`{"palette": {}}`))
	b := Revision([]byte(`{"palette": {"x": "y"}}`))

	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Revision([]byte(`{"palette": {}}`)))
}
