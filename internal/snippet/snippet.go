package snippet

import (
	"path/filepath"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Snippet is one translated message of a locale file
type Snippet struct {
	Key    string `msgpack:"key"`
	Text   string `msgpack:"text"`
	Locale string `msgpack:"locale"`
	File   string `msgpack:"file"`
	Line   int    `msgpack:"line"`
}

// localeDirs are the directory names locale files are picked up from
var localeDirs = []string{"locales", "i18n"}

// LocaleFromPath returns the locale of a locale file such as
// "locales/de.json" or "i18n/pt-BR.json".
func LocaleFromPath(path string) (string, bool) {
	if strings.ToLower(filepath.Ext(path)) != ".json" {
		return "", false
	}

	dir := filepath.Base(filepath.Dir(path))
	for _, localeDir := range localeDirs {
		if dir == localeDir {
			locale := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			return locale, locale != ""
		}
	}
	return "", false
}

func parseSnippetFile(root *tree_sitter.Node, document []byte, filePath, locale string) map[string]Snippet {
	// The object node is the first child of the document node
	if root.Kind() == "document" && root.NamedChildCount() > 0 {
		root = root.NamedChild(0)
	}

	result := make(map[string]Snippet)
	extractValues("", root, document, result, filePath, locale)

	return result
}

func extractValues(prefix string, node *tree_sitter.Node, content []byte, result map[string]Snippet, filePath, locale string) {
	if node.Kind() != "object" {
		return
	}

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

		newPrefix := stringContent(key, content)
		if prefix != "" {
			newPrefix = prefix + "." + newPrefix
		}

		var text string
		switch value.Kind() {
		case "object":
			extractValues(newPrefix, value, content, result, filePath, locale)
			continue
		case "string":
			text = stringContent(value, content)
		case "number", "true", "false":
			text = string(value.Utf8Text(content))
		default:
			continue
		}

		result[newPrefix] = Snippet{
			Key:    newPrefix,
			Text:   text,
			Locale: locale,
			File:   filePath,
			Line:   int(value.Range().StartPoint.Row) + 1,
		}
	}
}

func stringContent(node *tree_sitter.Node, content []byte) string {
	if node.NamedChildCount() > 0 && node.NamedChild(0).Kind() == "string_content" {
		return string(node.NamedChild(0).Utf8Text(content))
	}
	return strings.Trim(string(node.Utf8Text(content)), "\"")
}
