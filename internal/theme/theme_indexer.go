package theme

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/docforge/textpanel/internal/indexer"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// ErrThemeNotFound is returned when no indexed theme has the requested name
var ErrThemeNotFound = errors.New("theme not found")

// ThemeIndexer indexes theme definition files by theme name
type ThemeIndexer struct {
	themeIndex *indexer.DataIndexer[Theme]
}

// NewThemeIndexer creates a new theme indexer backed by a database in configDir
func NewThemeIndexer(configDir string) (*ThemeIndexer, error) {
	themeIndex, err := indexer.NewDataIndexer[Theme](filepath.Join(configDir, "themes.db"))
	if err != nil {
		return nil, err
	}

	return &ThemeIndexer{
		themeIndex: themeIndex,
	}, nil
}

// ID returns the unique identifier for this indexer
func (t *ThemeIndexer) ID() string {
	return "theme.indexer"
}

// Index parses a theme file and stores the theme under its name.
// node is nil for YAML themes.
func (t *ThemeIndexer) Index(path string, node *tree_sitter.Node, fileContent []byte) error {
	if !IsThemeFile(path) {
		return nil
	}

	var (
		parsed *Theme
		err    error
	)
	if strings.HasSuffix(path, ".json") {
		if node == nil {
			return fmt.Errorf("no syntax tree for %s", path)
		}
		parsed, err = ParseThemeFile(node, fileContent, path)
	} else {
		parsed, err = ParseYAMLThemeFile(fileContent, path)
	}
	if err != nil {
		return err
	}

	parsed.Revision = Revision(fileContent)

	return t.themeIndex.BatchSaveItems(map[string]map[string]Theme{
		path: {parsed.Name: *parsed},
	})
}

// RemovedFiles handles cleanup when files are removed
func (t *ThemeIndexer) RemovedFiles(paths []string) error {
	return t.themeIndex.BatchDeleteByFilePaths(paths)
}

// Close closes the indexer
func (t *ThemeIndexer) Close() error {
	return t.themeIndex.Close()
}

// Clear clears all indexed data
func (t *ThemeIndexer) Clear() error {
	return t.themeIndex.Clear()
}

// GetTheme returns the theme with the given name. When several files define
// the same name, the one with the lexically smallest path wins.
func (t *ThemeIndexer) GetTheme(name string) (*Theme, error) {
	themes, err := t.themeIndex.GetValues(name)
	if err != nil {
		return nil, err
	}
	if len(themes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, name)
	}

	sort.Slice(themes, func(i, j int) bool {
		return themes[i].File < themes[j].File
	})
	return &themes[0], nil
}

// ListThemes returns all indexed themes sorted by name
func (t *ThemeIndexer) ListThemes() ([]Theme, error) {
	themes, err := t.themeIndex.GetAllValues()
	if err != nil {
		return nil, err
	}

	sort.Slice(themes, func(i, j int) bool {
		if themes[i].Name != themes[j].Name {
			return themes[i].Name < themes[j].Name
		}
		return themes[i].File < themes[j].File
	})
	return themes, nil
}

// Revision fingerprints theme file content so hosts can tell when a theme changed
func Revision(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}
