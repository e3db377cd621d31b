package theme

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseYAMLThemeFile parses a *.theme.yaml document into a Theme
func ParseYAMLThemeFile(document []byte, filePath string) (*Theme, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(document, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}

	t := &Theme{
		Name: ThemeNameFromPath(filePath),
		File: filePath,
	}

	// An empty file has no content node
	if len(doc.Content) == 0 {
		return t, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("root node is not a mapping in %s", filePath)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "name":
			if value.Kind == yaml.ScalarNode && value.Value != "" {
				t.Name = value.Value
			}
		case "palette":
			t.Palette = buildYAMLNode(value)
			t.Line = key.Line
		}
	}

	return t, nil
}

func buildYAMLNode(node *yaml.Node) *Node {
	switch node.Kind {
	case yaml.AliasNode:
		return buildYAMLNode(node.Alias)
	case yaml.MappingNode:
		children := make(map[string]*Node)
		for i := 0; i+1 < len(node.Content); i += 2 {
			children[node.Content[i].Value] = buildYAMLNode(node.Content[i+1])
		}
		return Branch(children)
	case yaml.SequenceNode:
		children := make(map[string]*Node)
		for i, item := range node.Content {
			children[strconv.Itoa(i)] = buildYAMLNode(item)
		}
		return Branch(children)
	default:
		if node.Tag == "!!null" {
			return Branch(nil)
		}
		return Leaf(node.Value)
	}
}
