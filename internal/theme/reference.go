package theme

import "strings"

// LookupKind classifies the outcome of walking a theme tree
type LookupKind int

const (
	NotFound LookupKind = iota // the walk ended on a missing key or an absent palette
	NonLeaf                    // the walk ended on a mapping
	Found                      // the walk ended on a leaf
)

func (k LookupKind) String() string {
	switch k {
	case Found:
		return "found"
	case NonLeaf:
		return "non-leaf"
	default:
		return "not-found"
	}
}

// Lookup is the result of Walk
type Lookup struct {
	Kind  LookupKind
	Value string
}

// Keys splits a reference into its lookup keys. The first and last
// characters are delimiters and are dropped; references shorter than two
// characters have no keys. A lone "#" therefore walks no keys and resolves
// to the fallback, not to a lookup of the empty key "".
func (r Reference) Keys() []string {
	if len(r) < 2 {
		return nil
	}
	return strings.Split(string(r[1:len(r)-1]), ".")
}

// Walk follows keys from root. Once the walk reaches a leaf it stops and
// ignores the remaining keys, so a leaf met halfway is still Found.
func Walk(root *Node, keys []string) Lookup {
	current := root
	for _, key := range keys {
		if !current.IsBranch() {
			break
		}
		current = current.Children[key]
	}

	switch {
	case current == nil:
		return Lookup{Kind: NotFound}
	case current.IsBranch():
		return Lookup{Kind: NonLeaf}
	default:
		return Lookup{Kind: Found, Value: current.Value}
	}
}

// Resolve turns a reference into a concrete value using the theme palette.
//
// An empty reference and a reference that lands on a mapping both yield
// fallback. A reference whose target does not exist yields Undefined, not
// fallback; callers rely on that difference to tell a broken path from a
// coarse one.
func Resolve(ref Reference, t *Theme, fallback string) Value {
	if ref.IsEmpty() {
		return String(fallback)
	}

	lookup := Walk(t.palette(), ref.Keys())
	switch lookup.Kind {
	case NonLeaf:
		return String(fallback)
	case NotFound:
		return Undefined()
	default:
		return String(lookup.Value)
	}
}
