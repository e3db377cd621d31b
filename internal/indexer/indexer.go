package indexer

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

// Indexer consumes scanned project files. node is the parsed syntax tree of
// the file, or nil when the file type has no tree-sitter grammar registered.
type Indexer interface {
	ID() string
	Index(path string, node *tree_sitter.Node, fileContent []byte) error
	RemovedFiles(paths []string) error
	Close() error
	Clear() error
}
