package theme

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/tidwall/gjson"
)

// Node is one entry of a theme tree. A node is either a leaf holding a value
// or a branch holding named children. Children is non-nil exactly for branches.
type Node struct {
	Value    string           `msgpack:"v,omitempty"`
	Children map[string]*Node `msgpack:"c"`
}

// Leaf creates a leaf node
func Leaf(value string) *Node {
	return &Node{Value: value}
}

// Branch creates a branch node. A nil map creates an empty branch.
func Branch(children map[string]*Node) *Node {
	if children == nil {
		children = make(map[string]*Node)
	}
	return &Node{Children: children}
}

// IsBranch reports whether the node is a mapping
func (n *Node) IsBranch() bool {
	return n != nil && n.Children != nil
}

// Child returns the named child of a branch
func (n *Node) Child(key string) (*Node, bool) {
	if !n.IsBranch() {
		return nil, false
	}
	child, ok := n.Children[key]
	return child, ok
}

// UnmarshalJSON builds the tree from arbitrary JSON.
func (n *Node) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("theme: invalid JSON")
	}
	*n = *nodeFromResult(gjson.ParseBytes(data))
	return nil
}

// MarshalJSON writes leaves as strings and branches as objects
func (n *Node) MarshalJSON() ([]byte, error) {
	if n.IsBranch() {
		return json.Marshal(n.Children)
	}
	return json.Marshal(n.Value)
}

func nodeFromResult(res gjson.Result) *Node {
	switch {
	case res.IsObject():
		children := make(map[string]*Node)
		res.ForEach(func(key, value gjson.Result) bool {
			children[key.String()] = nodeFromResult(value)
			return true
		})
		return Branch(children)
	case res.IsArray():
		children := make(map[string]*Node)
		for i, item := range res.Array() {
			children[strconv.Itoa(i)] = nodeFromResult(item)
		}
		return Branch(children)
	case res.Type == gjson.Null:
		// null behaves like an empty mapping
		return Branch(nil)
	case res.Type == gjson.String:
		return Leaf(res.Str)
	default:
		return Leaf(res.Raw)
	}
}

// Theme is a named design theme. Palette is the root every reference is resolved from.
type Theme struct {
	Name     string `json:"name,omitempty" msgpack:"name"`
	Palette  *Node  `json:"palette,omitempty" msgpack:"palette"`
	File     string `json:"file,omitempty" msgpack:"file"`
	Line     int    `json:"line,omitempty" msgpack:"line"`
	Revision string `json:"revision,omitempty" msgpack:"revision"`
}

// palette returns the resolution root, nil when the theme or its palette is absent
func (t *Theme) palette() *Node {
	if t == nil {
		return nil
	}
	return t.Palette
}

// Value is a resolved property value. The zero Value is undefined, which is
// distinct from the empty string and serializes as JSON null.
type Value struct {
	str     string
	defined bool
}

// String creates a defined value
func String(s string) Value {
	return Value{str: s, defined: true}
}

// Undefined returns the undefined value
func Undefined() Value {
	return Value{}
}

// Get returns the string and whether the value is defined
func (v Value) Get() (string, bool) {
	return v.str, v.defined
}

// Defined reports whether the value holds a string
func (v Value) Defined() bool {
	return v.defined
}

// IsZero lets `omitzero` drop undefined values
func (v Value) IsZero() bool {
	return !v.defined
}

// String returns the held string, or "" when undefined
func (v Value) String() string {
	return v.str
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.defined {
		return []byte("null"), nil
	}
	return json.Marshal(v.str)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	switch res.Type {
	case gjson.Null:
		*v = Undefined()
	case gjson.String:
		*v = String(res.Str)
	default:
		*v = String(res.Raw)
	}
	return nil
}

// Reference is a symbolic theme path such as "#primary.main#". The empty
// reference means the property is not bound to the theme.
type Reference string

// IsEmpty reports whether the reference carries no binding
func (r Reference) IsEmpty() bool {
	return r == ""
}
