package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadThemeFile_JSON(t *testing.T) {
	theme, err := LoadThemeFile("testdata/brand.theme.json")
	require.NoError(t, err)

	assert.Equal(t, "brand", theme.Name)
	assert.NotEmpty(t, theme.Revision)
	assert.Equal(t, []Reference{
		"#contrastThreshold#",
		"#greys.0#",
		"#greys.1#",
		"#primary.dark#",
		"#primary.main#",
		"#quoted#",
		"#secondary.main#",
	}, theme.References())
}

func TestLoadThemeFile_YAML(t *testing.T) {
	theme, err := LoadThemeFile("testdata/print.theme.yaml")
	require.NoError(t, err)

	assert.Equal(t, "print", theme.Name)
	assert.Equal(t, []Reference{
		"#accent.main#",
		"#greys.0#",
		"#greys.1#",
		"#primary.dark#",
		"#primary.main#",
		"#secondary.main#",
	}, theme.References())
}

func TestLoadThemeFile_Missing(t *testing.T) {
	_, err := LoadThemeFile("testdata/missing.theme.json")
	assert.Error(t, err)
}

func TestReferences_ResolveToLeaves(t *testing.T) {
	theme := DefaultTheme()
	for _, ref := range theme.References() {
		assert.True(t, Resolve(ref, theme, "").Defined(), string(ref))
		assert.Equal(t, Found, Walk(theme.Palette, ref.Keys()).Kind, string(ref))
	}

	var absent *Theme
	assert.Empty(t, absent.References())
}
