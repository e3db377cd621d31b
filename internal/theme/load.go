package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_json "github.com/tree-sitter/tree-sitter-json/bindings/go"
)

// LoadThemeFile reads a theme from a JSON or YAML file outside the index
func LoadThemeFile(path string) (*Theme, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme %s: %w", path, err)
	}

	var t *Theme
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		t, err = ParseYAMLThemeFile(content, path)
	default:
		parser := tree_sitter.NewParser()
		defer parser.Close()
		if err := parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_json.Language())); err != nil {
			return nil, err
		}

		tree := parser.Parse(content, nil)
		if tree == nil {
			return nil, fmt.Errorf("failed to parse theme %s", path)
		}
		defer tree.Close()

		t, err = ParseThemeFile(tree.RootNode(), content, path)
	}
	if err != nil {
		return nil, err
	}

	t.Revision = Revision(content)
	return t, nil
}

// References lists a reference for every leaf of the palette, sorted
func (t *Theme) References() []Reference {
	var refs []Reference
	collectReferences(t.palette(), nil, &refs)
	sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })
	return refs
}

func collectReferences(n *Node, path []string, refs *[]Reference) {
	if n == nil {
		return
	}
	if !n.IsBranch() {
		if len(path) > 0 {
			*refs = append(*refs, Reference("#"+strings.Join(path, ".")+"#"))
		}
		return
	}
	for key, child := range n.Children {
		collectReferences(child, append(path[:len(path):len(path)], key), refs)
	}
}
