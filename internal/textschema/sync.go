package textschema

import "github.com/docforge/textpanel/internal/theme"

// Binding ties a stored property to the property holding its theme reference
type Binding struct {
	Key      string
	ThemeKey string
	Fallback string

	value     func(*TextSchema) *theme.Value
	reference func(*TextSchema) theme.Reference
}

var bindings = []Binding{
	{
		Key:       "fontColor",
		ThemeKey:  "fontColorFromTheme",
		Fallback:  DefaultFontColor,
		value:     func(s *TextSchema) *theme.Value { return &s.FontColor },
		reference: func(s *TextSchema) theme.Reference { return s.FontColorFromTheme },
	},
	{
		Key:       "backgroundColor",
		ThemeKey:  "backgroundColorFromTheme",
		Fallback:  DefaultBackgroundColor,
		value:     func(s *TextSchema) *theme.Value { return &s.BackgroundColor },
		reference: func(s *TextSchema) theme.Reference { return s.BackgroundColorFromTheme },
	},
}

// Bindings returns the theme-bound properties in the order they are synced
func Bindings() []Binding {
	return append([]Binding(nil), bindings...)
}

// Change rewrites one property of one element
type Change struct {
	Key      string      `json:"key"`
	SchemaID string      `json:"schemaId"`
	Value    theme.Value `json:"value"`
}

// Sync returns the changes that make every bound property equal to what its
// reference resolves to in t. Unbound properties are left alone and the
// element itself is not modified.
func Sync(element *TextSchema, t *theme.Theme) []Change {
	if element == nil {
		return nil
	}

	var changes []Change
	for _, b := range bindings {
		ref := b.reference(element)
		if ref.IsEmpty() {
			continue
		}

		resolved := theme.Resolve(ref, t, b.Fallback)
		if resolved != *b.value(element) {
			changes = append(changes, Change{
				Key:      b.Key,
				SchemaID: element.ID,
				Value:    resolved,
			})
		}
	}
	return changes
}

// Apply writes changes addressed to this element. Changes for other
// elements or unknown keys are ignored.
func (s *TextSchema) Apply(changes []Change) {
	for _, change := range changes {
		if change.SchemaID != s.ID {
			continue
		}
		for _, b := range bindings {
			if b.Key == change.Key {
				*b.value(s) = change.Value
			}
		}
	}
}
