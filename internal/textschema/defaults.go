package textschema

import "github.com/docforge/textpanel/internal/theme"

const (
	SchemaType = "text"

	DefaultFontName         = "Roboto"
	DefaultFontColor        = "#000000"
	DefaultBackgroundColor  = ""
	DefaultFontSize         = 13
	DefaultLineHeight       = 1
	DefaultCharacterSpacing = 0
	DefaultOpacity          = 1
	DefaultAlignment        = AlignLeft
	DefaultVerticalAlign    = VerticalAlignTop

	// DefaultValue is the content of a newly created text element
	DefaultValue = "Type Something..."

	// HexColorPattern validates color fields in the panel
	HexColorPattern = "^#(?:[A-Fa-f0-9]{6})$"
)

// DefaultSchema returns the property set of a newly created text element
func DefaultSchema() TextSchema {
	return TextSchema{
		Type:                     SchemaType,
		Position:                 Position{X: 0, Y: 0},
		Width:                    45,
		Height:                   10,
		Rotate:                   0,
		Alignment:                DefaultAlignment,
		VerticalAlignment:        DefaultVerticalAlign,
		FontSize:                 DefaultFontSize,
		LineHeight:               DefaultLineHeight,
		CharacterSpacing:         DefaultCharacterSpacing,
		FontColor:                theme.String(DefaultFontColor),
		FontName:                 "Regular",
		BackgroundColor:          theme.String(DefaultBackgroundColor),
		BackgroundColorFromTheme: "",
		FontColorFromTheme:       "",
		Opacity:                  DefaultOpacity,
	}
}
