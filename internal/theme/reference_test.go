package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func paletteTheme(palette *Node) *Theme {
	return &Theme{Name: "test", Palette: palette}
}

func TestReferenceKeys(t *testing.T) {
	assert.Nil(t, Reference("").Keys())
	assert.Nil(t, Reference("#").Keys())
	assert.Equal(t, []string{""}, Reference("##").Keys())
	assert.Equal(t, []string{"primary", "main"}, Reference("#primary.main#").Keys())
	assert.Equal(t, []string{"a", "", "b"}, Reference("#a..b#").Keys())
}

func TestResolve_EmptyReferenceReturnsFallback(t *testing.T) {
	theme := paletteTheme(Branch(map[string]*Node{"a": Leaf("X")}))

	assert.Equal(t, String("F"), Resolve("", theme, "F"))
	assert.Equal(t, String("F"), Resolve("", nil, "F"))
	assert.Equal(t, String(""), Resolve("", theme, ""))
}

func TestResolve_Leaf(t *testing.T) {
	theme := paletteTheme(Branch(map[string]*Node{
		"a": Branch(map[string]*Node{"b": Leaf("X")}),
	}))

	assert.Equal(t, String("X"), Resolve("#a.b#", theme, "F"))
}

func TestResolve_NonLeafTargetFallsBack(t *testing.T) {
	theme := paletteTheme(Branch(map[string]*Node{
		"a": Branch(map[string]*Node{
			"b": Branch(map[string]*Node{"c": Leaf("X")}),
		}),
	}))

	assert.Equal(t, String("F"), Resolve("#a.b#", theme, "F"))
}

func TestResolve_MissingKeyIsUndefined(t *testing.T) {
	theme := paletteTheme(Branch(map[string]*Node{
		"a": Branch(map[string]*Node{"b": Leaf("X")}),
	}))

	got := Resolve("#a.z#", theme, "F")
	assert.False(t, got.Defined())
	assert.Equal(t, Undefined(), got)

	got = Resolve("#missing.path.deep#", theme, "F")
	assert.False(t, got.Defined())
}

func TestResolve_LeafHalfwayStopsWalk(t *testing.T) {
	theme := paletteTheme(Branch(map[string]*Node{"a": Leaf("X")}))

	assert.Equal(t, String("X"), Resolve("#a.b.c#", theme, "F"))
}

func TestResolve_AbsentThemeOrPalette(t *testing.T) {
	assert.Equal(t, Undefined(), Resolve("#a.b#", nil, "F"))
	assert.Equal(t, Undefined(), Resolve("#a.b#", &Theme{Name: "empty"}, "F"))
}

func TestResolve_ShortReferenceTargetsPalette(t *testing.T) {
	theme := paletteTheme(Branch(map[string]*Node{"a": Leaf("X")}))

	// no keys: the palette itself is a mapping
	assert.Equal(t, String("F"), Resolve("#", theme, "F"))
	// a single empty key that does not exist
	assert.Equal(t, Undefined(), Resolve("##", theme, "F"))
}

func TestResolve_NullAndArrays(t *testing.T) {
	theme := paletteTheme(Branch(map[string]*Node{
		"divider": Branch(nil),
		"greys":   Branch(map[string]*Node{"0": Leaf("#eee"), "1": Leaf("#999")}),
	}))

	assert.Equal(t, String("F"), Resolve("#divider#", theme, "F"))
	assert.Equal(t, Undefined(), Resolve("#divider.x#", theme, "F"))
	assert.Equal(t, String("#999"), Resolve("#greys.1#", theme, "F"))
	assert.Equal(t, String("F"), Resolve("#greys#", theme, "F"))
}

func TestWalk(t *testing.T) {
	root := Branch(map[string]*Node{
		"primary": Branch(map[string]*Node{"main": Leaf("#1976d2")}),
	})

	assert.Equal(t, Lookup{Kind: Found, Value: "#1976d2"}, Walk(root, []string{"primary", "main"}))
	assert.Equal(t, Lookup{Kind: NonLeaf}, Walk(root, []string{"primary"}))
	assert.Equal(t, Lookup{Kind: NotFound}, Walk(root, []string{"secondary", "main"}))
	assert.Equal(t, Lookup{Kind: NotFound}, Walk(nil, []string{"primary"}))
	assert.Equal(t, "non-leaf", NonLeaf.String())
}

func TestResolve_DefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	assert.Equal(t, String("#1976d2"), Resolve("#primary.main#", theme, "#000000"))
	assert.Equal(t, String("#9c27b0"), Resolve("#secondary.main#", theme, "#000000"))
	assert.Equal(t, String("#1565c0"), Resolve("#primary.dark#", theme, "#000000"))
}
