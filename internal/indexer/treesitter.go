package indexer

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_json "github.com/tree-sitter/tree-sitter-json/bindings/go"
)

// scannedFileTypes lists the extensions handed to indexers. YAML files are
// scanned without a syntax tree; indexers decode them from the raw content.
var scannedFileTypes = []string{
	".json",
	".yaml",
	".yml",
}

// CreateTreesitterParsers returns one parser per file extension that has a grammar
func CreateTreesitterParsers() map[string]*tree_sitter.Parser {
	parsers := make(map[string]*tree_sitter.Parser)

	parsers[".json"] = tree_sitter.NewParser()
	_ = parsers[".json"].SetLanguage(tree_sitter.NewLanguage(tree_sitter_json.Language()))

	return parsers
}

// CloseTreesitterParsers releases the parsers created by CreateTreesitterParsers
func CloseTreesitterParsers(parsers map[string]*tree_sitter.Parser) {
	for _, parser := range parsers {
		parser.Close()
	}
}
