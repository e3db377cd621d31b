package textschema

import (
	"encoding/json"
	"testing"

	"github.com/docforge/textpanel/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTheme() *theme.Theme {
	return &theme.Theme{
		Name: "test",
		Palette: theme.Branch(map[string]*theme.Node{
			"primary": theme.Branch(map[string]*theme.Node{
				"main": theme.Leaf("#111111"),
				"dark": theme.Leaf("#000011"),
			}),
			"secondary": theme.Branch(map[string]*theme.Node{
				"main": theme.Leaf("#222222"),
			}),
		}),
	}
}

func TestSync_CorrectsOutOfDateColor(t *testing.T) {
	element := DefaultSchema()
	element.ID = "e1"
	element.FontColor = theme.String("#ffffff")
	element.FontColorFromTheme = "#primary.main#"

	changes := Sync(&element, testTheme())
	assert.Equal(t, []Change{{Key: "fontColor", SchemaID: "e1", Value: theme.String("#111111")}}, changes)

	// The element is not modified
	assert.Equal(t, theme.String("#ffffff"), element.FontColor)
}

func TestSync_Idempotent(t *testing.T) {
	element := DefaultSchema()
	element.ID = "e1"
	element.FontColor = theme.String("#111111")
	element.FontColorFromTheme = "#primary.main#"
	element.BackgroundColor = theme.String("#222222")
	element.BackgroundColorFromTheme = "#secondary.main#"

	assert.Empty(t, Sync(&element, testTheme()))
}

func TestSync_UnboundPropertiesUntouched(t *testing.T) {
	element := DefaultSchema()
	element.ID = "e1"
	element.FontColor = theme.String("#abcdef")
	element.BackgroundColor = theme.String("#fedcba")

	assert.Empty(t, Sync(&element, testTheme()))
	assert.Nil(t, Sync(nil, testTheme()))
}

func TestSync_OrderAndFallbacks(t *testing.T) {
	element := DefaultSchema()
	element.ID = "e2"
	element.FontColor = theme.String("#123456")
	element.FontColorFromTheme = "#primary#"
	element.BackgroundColor = theme.String("#123456")
	element.BackgroundColorFromTheme = "#secondary#"

	// Both references land on mappings and fall back to their defaults
	changes := Sync(&element, testTheme())
	assert.Equal(t, []Change{
		{Key: "fontColor", SchemaID: "e2", Value: theme.String(DefaultFontColor)},
		{Key: "backgroundColor", SchemaID: "e2", Value: theme.String("")},
	}, changes)
}

func TestSync_BrokenReferenceYieldsUndefined(t *testing.T) {
	element := DefaultSchema()
	element.ID = "e3"
	element.BackgroundColorFromTheme = "#tertiary.main#"

	changes := Sync(&element, testTheme())
	require.Len(t, changes, 1)
	assert.Equal(t, "backgroundColor", changes[0].Key)
	assert.False(t, changes[0].Value.Defined())

	// Once the stored value is undefined there is nothing left to change
	element.Apply(changes)
	assert.False(t, element.BackgroundColor.Defined())
	assert.Empty(t, Sync(&element, testTheme()))
}

func TestSync_AbsentTheme(t *testing.T) {
	element := DefaultSchema()
	element.ID = "e4"
	element.FontColorFromTheme = "#primary.main#"

	changes := Sync(&element, nil)
	assert.Equal(t, []Change{{Key: "fontColor", SchemaID: "e4", Value: theme.Undefined()}}, changes)
}

func TestSync_ApplyThenSyncIsEmpty(t *testing.T) {
	element := DefaultSchema()
	element.ID = "e5"
	element.FontColorFromTheme = "#primary.dark#"
	element.BackgroundColorFromTheme = "#secondary.main#"

	changes := Sync(&element, testTheme())
	require.Len(t, changes, 2)

	element.Apply(changes)
	assert.Equal(t, theme.String("#000011"), element.FontColor)
	assert.Equal(t, theme.String("#222222"), element.BackgroundColor)
	assert.Empty(t, Sync(&element, testTheme()))
}

func TestApply_IgnoresOtherElements(t *testing.T) {
	element := DefaultSchema()
	element.ID = "mine"

	element.Apply([]Change{
		{Key: "fontColor", SchemaID: "other", Value: theme.String("#ffffff")},
		{Key: "width", SchemaID: "mine", Value: theme.String("100")},
	})
	assert.Equal(t, theme.String(DefaultFontColor), element.FontColor)
	assert.Equal(t, float64(45), element.Width)
}

func TestChange_JSON(t *testing.T) {
	data, err := json.Marshal([]Change{
		{Key: "fontColor", SchemaID: "e1", Value: theme.String("#111111")},
		{Key: "backgroundColor", SchemaID: "e1", Value: theme.Undefined()},
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"key":"fontColor","schemaId":"e1","value":"#111111"},{"key":"backgroundColor","schemaId":"e1","value":null}]`,
		string(data))
}

func TestTextSchema_JSON(t *testing.T) {
	var element TextSchema
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "e1",
		"type": "text",
		"fontColor": "#ff0000",
		"backgroundColor": null,
		"fontColorFromTheme": "#primary.main#"
	}`), &element))

	assert.Equal(t, theme.String("#ff0000"), element.FontColor)
	assert.False(t, element.BackgroundColor.Defined())
	assert.Equal(t, theme.Reference("#primary.main#"), element.FontColorFromTheme)
	assert.True(t, element.BackgroundColorFromTheme.IsEmpty())

	data, err := json.Marshal(element)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"fontColor":"#ff0000"`)
	assert.NotContains(t, string(data), `"backgroundColor":`)
}

func TestDefaultSchema(t *testing.T) {
	s := DefaultSchema()

	assert.Equal(t, "text", s.Type)
	assert.Equal(t, Position{}, s.Position)
	assert.Equal(t, float64(45), s.Width)
	assert.Equal(t, float64(10), s.Height)
	assert.Equal(t, float64(0), s.Rotate)
	assert.Equal(t, AlignLeft, s.Alignment)
	assert.Equal(t, VerticalAlignTop, s.VerticalAlignment)
	assert.Equal(t, float64(13), s.FontSize)
	assert.Equal(t, float64(1), s.LineHeight)
	assert.Equal(t, float64(0), s.CharacterSpacing)
	assert.Equal(t, theme.String("#000000"), s.FontColor)
	assert.Equal(t, "Regular", s.FontName)
	assert.Equal(t, theme.String(""), s.BackgroundColor)
	assert.True(t, s.FontColorFromTheme.IsEmpty())
	assert.True(t, s.BackgroundColorFromTheme.IsEmpty())
	assert.Equal(t, float64(1), s.Opacity)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"backgroundColor":""`)
}

func TestBindings(t *testing.T) {
	b := Bindings()
	require.Len(t, b, 2)
	assert.Equal(t, "fontColor", b[0].Key)
	assert.Equal(t, "fontColorFromTheme", b[0].ThemeKey)
	assert.Equal(t, "#000000", b[0].Fallback)
	assert.Equal(t, "backgroundColor", b[1].Key)
	assert.Equal(t, "backgroundColorFromTheme", b[1].ThemeKey)
	assert.Equal(t, "", b[1].Fallback)
}
