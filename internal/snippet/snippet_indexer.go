package snippet

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/docforge/textpanel/internal/indexer"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// SnippetIndexer indexes the messages of project locale files
type SnippetIndexer struct {
	localeIndex *indexer.DataIndexer[Snippet]
}

func NewSnippetIndexer(configDir string) (*SnippetIndexer, error) {
	localeIndex, err := indexer.NewDataIndexer[Snippet](filepath.Join(configDir, "locale_snippet.db"))
	if err != nil {
		return nil, err
	}

	return &SnippetIndexer{
		localeIndex: localeIndex,
	}, nil
}

func (s *SnippetIndexer) ID() string {
	return "snippet.indexer"
}

func (s *SnippetIndexer) Index(path string, node *tree_sitter.Node, fileContent []byte) error {
	locale, ok := LocaleFromPath(path)
	if !ok {
		return nil
	}
	if node == nil {
		return fmt.Errorf("no syntax tree for %s", path)
	}

	snippets := parseSnippetFile(node, fileContent, path, locale)
	if len(snippets) == 0 {
		return nil
	}

	return s.localeIndex.BatchSaveItems(map[string]map[string]Snippet{path: snippets})
}

func (s *SnippetIndexer) RemovedFiles(paths []string) error {
	return s.localeIndex.BatchDeleteByFilePaths(paths)
}

func (s *SnippetIndexer) Close() error {
	return s.localeIndex.Close()
}

func (s *SnippetIndexer) Clear() error {
	return s.localeIndex.Clear()
}

// GetSnippets returns every indexed message, ordered by file and line
func (s *SnippetIndexer) GetSnippets() ([]Snippet, error) {
	snippets, err := s.localeIndex.GetAllValues()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(snippets, func(i, j int) bool {
		if snippets[i].File != snippets[j].File {
			return snippets[i].File < snippets[j].File
		}
		return snippets[i].Line < snippets[j].Line
	})
	return snippets, nil
}

// GetSnippet returns the message for key in locale
func (s *SnippetIndexer) GetSnippet(locale, key string) (Snippet, bool, error) {
	snippets, err := s.localeIndex.GetValues(key)
	if err != nil {
		return Snippet{}, false, err
	}
	for _, snippet := range snippets {
		if snippet.Locale == locale {
			return snippet, true, nil
		}
	}
	return Snippet{}, false, nil
}

// Locales returns the distinct locales that have at least one message
func (s *SnippetIndexer) Locales() ([]string, error) {
	snippets, err := s.localeIndex.GetAllValues()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var locales []string
	for _, snippet := range snippets {
		if !seen[snippet.Locale] {
			seen[snippet.Locale] = true
			locales = append(locales, snippet.Locale)
		}
	}
	sort.Strings(locales)
	return locales, nil
}

// LocaleFiles returns the locale files indexed for locale
func (s *SnippetIndexer) LocaleFiles(locale string) ([]string, error) {
	snippets, err := s.GetSnippets()
	if err != nil {
		return nil, err
	}

	var files []string
	for _, snippet := range snippets {
		if snippet.Locale == locale && (len(files) == 0 || files[len(files)-1] != snippet.File) {
			files = append(files, snippet.File)
		}
	}
	return files, nil
}
