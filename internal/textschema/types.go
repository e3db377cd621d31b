package textschema

import "github.com/docforge/textpanel/internal/theme"

// Alignment is the horizontal text alignment
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// VerticalAlignment is the vertical text alignment
type VerticalAlignment string

const (
	VerticalAlignTop    VerticalAlignment = "top"
	VerticalAlignMiddle VerticalAlignment = "middle"
	VerticalAlignBottom VerticalAlignment = "bottom"
)

// Position is the top left corner of an element in millimeters
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TextSchema is the stored property set of a text element. Colors are
// optional: an absent or null color is undefined, which differs from "".
type TextSchema struct {
	ID                       string            `json:"id,omitempty"`
	Name                     string            `json:"name,omitempty"`
	Type                     string            `json:"type"`
	Content                  string            `json:"content,omitempty"`
	Position                 Position          `json:"position"`
	Width                    float64           `json:"width"`
	Height                   float64           `json:"height"`
	Rotate                   float64           `json:"rotate"`
	Opacity                  float64           `json:"opacity"`
	FontName                 string            `json:"fontName,omitempty"`
	Alignment                Alignment         `json:"alignment"`
	VerticalAlignment        VerticalAlignment `json:"verticalAlignment"`
	FontSize                 float64           `json:"fontSize"`
	LineHeight               float64           `json:"lineHeight"`
	CharacterSpacing         float64           `json:"characterSpacing"`
	FontColor                theme.Value       `json:"fontColor,omitzero"`
	BackgroundColor          theme.Value       `json:"backgroundColor,omitzero"`
	FontColorFromTheme       theme.Reference   `json:"fontColorFromTheme"`
	BackgroundColorFromTheme theme.Reference   `json:"backgroundColorFromTheme"`
}
