package theme

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParseThemeFile parses a *.theme.json document into a Theme. Only the
// "name" and "palette" members are read; everything else is ignored.
func ParseThemeFile(root *tree_sitter.Node, document []byte, filePath string) (*Theme, error) {
	// The object node is the first child of the document node
	if root.Kind() == "document" && root.NamedChildCount() > 0 {
		root = root.NamedChild(0)
	}

	if root.Kind() != "object" {
		return nil, fmt.Errorf("root node is not an object: %s", root.Kind())
	}

	t := &Theme{
		Name: ThemeNameFromPath(filePath),
		File: filePath,
	}

	for i := uint(0); i < root.NamedChildCount(); i++ {
		pair := root.NamedChild(i)
		if pair.Kind() != "pair" {
			continue
		}

		key := pair.NamedChild(0)
		value := pair.NamedChild(1)
		if key == nil || value == nil || key.Kind() != "string" {
			continue
		}

		switch extractStringContent(key, document) {
		case "name":
			if value.Kind() == "string" {
				if name := extractStringContent(value, document); name != "" {
					t.Name = name
				}
			}
		case "palette":
			t.Palette = buildNode(value, document)
			t.Line = int(pair.Range().StartPoint.Row) + 1
		}
	}

	return t, nil
}

// buildNode converts a JSON value node into a theme node
func buildNode(node *tree_sitter.Node, content []byte) *Node {
	switch node.Kind() {
	case "object":
		children := make(map[string]*Node)
		for i := uint(0); i < node.NamedChildCount(); i++ {
			pair := node.NamedChild(i)
			if pair.Kind() != "pair" {
				continue
			}
			key := pair.NamedChild(0)
			value := pair.NamedChild(1)
			if key == nil || value == nil || key.Kind() != "string" {
				continue
			}
			children[extractStringContent(key, content)] = buildNode(value, content)
		}
		return Branch(children)
	case "array":
		children := make(map[string]*Node)
		index := 0
		for i := uint(0); i < node.NamedChildCount(); i++ {
			item := node.NamedChild(i)
			if item.Kind() == "comment" {
				continue
			}
			children[strconv.Itoa(index)] = buildNode(item, content)
			index++
		}
		return Branch(children)
	case "null":
		return Branch(nil)
	case "string":
		return Leaf(extractStringContent(node, content))
	default:
		// number, true, false
		return Leaf(node.Utf8Text(content))
	}
}

// extractStringContent extracts the content of a string node
func extractStringContent(node *tree_sitter.Node, content []byte) string {
	if node.NamedChildCount() == 1 && node.NamedChild(0).Kind() == "string_content" {
		return node.NamedChild(0).Utf8Text(content)
	}

	// Escapes split the content into several children, unquote the whole literal
	raw := node.Utf8Text(content)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		return unquoted
	}
	return strings.Trim(raw, "\"")
}

// ThemeNameFromPath derives a theme name from its file name: "brand.theme.json" -> "brand"
func ThemeNameFromPath(path string) string {
	base := filepath.Base(path)
	for _, suffix := range themeFileSuffixes {
		if strings.HasSuffix(base, suffix) {
			return strings.TrimSuffix(base, suffix)
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var themeFileSuffixes = []string{".theme.json", ".theme.yaml", ".theme.yml"}

// IsThemeFile checks if a file is a theme definition
func IsThemeFile(path string) bool {
	for _, suffix := range themeFileSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
