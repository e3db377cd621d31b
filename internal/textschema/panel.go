package textschema

import (
	"fmt"

	"github.com/docforge/textpanel/internal/propanel"
)

const themeSelectTitle = "Select from Theme"

// DefaultThemeOptions are the references offered by the theme selects
func DefaultThemeOptions() []propanel.Option {
	return []propanel.Option{
		{Label: "None", Value: ""},
		{Label: "Primary", Value: "#primary.main#"},
		{Label: "Secondary", Value: "#secondary.main#"},
		{Label: "Primary Dark", Value: "#primary.dark#"},
	}
}

// PanelOptions configures BuildPanel
type PanelOptions struct {
	// Fonts available to the editor; nil means DefaultFonts
	Fonts *FontMap
	// ThemeOptions replaces DefaultThemeOptions when non-empty
	ThemeOptions []propanel.Option
}

// BuildPanel returns the property panel for the active element. i18n
// translates message keys; nil leaves keys untranslated.
func BuildPanel(active *TextSchema, opts PanelOptions, i18n func(key string) string) (*propanel.Schema, error) {
	if i18n == nil {
		i18n = func(key string) string { return key }
	}

	fonts := opts.Fonts
	if fonts == nil {
		fonts = DefaultFonts()
	}
	fallbackFontName, err := FallbackFontName(fonts)
	if err != nil {
		return nil, fmt.Errorf("failed to build font select: %w", err)
	}

	fontOptions := make([]propanel.Option, 0, fonts.Len())
	for _, name := range fonts.Names() {
		fontOptions = append(fontOptions, propanel.Option{Label: name, Value: name})
	}

	themeOptions := opts.ThemeOptions
	if len(themeOptions) == 0 {
		themeOptions = DefaultThemeOptions()
	}

	var fontBound, backgroundBound bool
	if active != nil {
		fontBound = !active.FontColorFromTheme.IsEmpty()
		backgroundBound = !active.BackgroundColorFromTheme.IsEmpty()
	}

	colorRules := []propanel.Rule{{Pattern: HexColorPattern, Message: i18n("hexColorPrompt")}}

	s := propanel.NewSchema()
	s.Set("fontName", propanel.Descriptor{
		Title:   "Font",
		Type:    "string",
		Widget:  propanel.WidgetSelect,
		Default: fallbackFontName,
		Props:   &propanel.Props{Options: fontOptions},
		Span:    12,
	})
	s.Set("fontSize", propanel.Descriptor{
		Title:  i18n("schemas.text.size"),
		Type:   "number",
		Widget: propanel.WidgetInputNumber,
		Span:   6,
	})
	s.Set("characterSpacing", propanel.Descriptor{
		Title:  i18n("schemas.text.spacing"),
		Type:   "number",
		Widget: propanel.WidgetInputNumber,
		Span:   6,
	})
	s.Set("alignment", propanel.Descriptor{
		Title:  i18n("schemas.text.textAlign"),
		Type:   "string",
		Widget: propanel.WidgetSelect,
		Props: &propanel.Props{Options: []propanel.Option{
			{Label: i18n("schemas.left"), Value: string(AlignLeft)},
			{Label: i18n("schemas.center"), Value: string(AlignCenter)},
			{Label: i18n("schemas.right"), Value: string(AlignRight)},
		}},
		Span: 8,
	})
	s.Set("verticalAlignment", propanel.Descriptor{
		Title:  i18n("schemas.text.verticalAlign"),
		Type:   "string",
		Widget: propanel.WidgetSelect,
		Props: &propanel.Props{Options: []propanel.Option{
			{Label: i18n("schemas.top"), Value: string(VerticalAlignTop)},
			{Label: i18n("schemas.middle"), Value: string(VerticalAlignMiddle)},
			{Label: i18n("schemas.bottom"), Value: string(VerticalAlignBottom)},
		}},
		Span: 8,
	})
	s.Set("lineHeight", propanel.Descriptor{
		Title:  i18n("schemas.text.lineHeight"),
		Type:   "number",
		Widget: propanel.WidgetInputNumber,
		Props:  &propanel.Props{Step: 0.1},
		Span:   8,
	})
	s.Set("divider", propanel.Descriptor{
		Widget: propanel.WidgetDivider,
		Span:   24,
	})
	s.Set("fontColor", propanel.Descriptor{
		Title:     i18n("schemas.textColor"),
		Type:      "string",
		Widget:    propanel.WidgetColor,
		ClassName: "-mt-2",
		Disabled:  propanel.Bool(fontBound),
		Span:      24,
		Rules:     colorRules,
	})
	s.Set("fontColorFromTheme", propanel.Descriptor{
		Title:     themeSelectTitle,
		Type:      "string",
		Widget:    propanel.WidgetSelect,
		ClassName: "mt-1",
		Span:      24,
		Props:     &propanel.Props{Options: themeOptions},
	})
	s.Set("divider2", propanel.Descriptor{
		Widget: propanel.WidgetDivider,
		Span:   24,
	})
	s.Set("backgroundColor", propanel.Descriptor{
		Title:     i18n("schemas.bgColor"),
		Type:      "string",
		Widget:    propanel.WidgetColor,
		ClassName: "-mt-2",
		Disabled:  propanel.Bool(backgroundBound),
		Span:      24,
		Rules:     colorRules,
	})
	s.Set("backgroundColorFromTheme", propanel.Descriptor{
		Title:        themeSelectTitle,
		Type:         "string",
		Widget:       propanel.WidgetSelect,
		ClassName:    "mt-1",
		Dependencies: []string{"backgroundColor"},
		Span:         24,
		Props:        &propanel.Props{Options: themeOptions},
	})

	return s, nil
}
