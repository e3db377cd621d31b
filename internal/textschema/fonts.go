package textschema

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

var ErrNoFallbackFont = errors.New("no font is marked as fallback")

// Font is a font made available to the editor. Data is opaque here.
type Font struct {
	Data     any  `json:"data" yaml:"data"`
	Fallback bool `json:"fallback,omitempty" yaml:"fallback"`
	Subset   bool `json:"subset,omitempty" yaml:"subset"`
}

// FontMap maps font names to fonts and keeps the order the host declared
// them in. The font select lists fonts in that order.
type FontMap struct {
	names []string
	fonts map[string]Font
}

// NewFontMap creates an empty font map
func NewFontMap() *FontMap {
	return &FontMap{fonts: make(map[string]Font)}
}

// DefaultFonts is used when the host supplies no fonts
func DefaultFonts() *FontMap {
	fonts := NewFontMap()
	fonts.Set(DefaultFontName, Font{Data: "", Fallback: true})
	return fonts
}

// Set adds or replaces a font. Replacing keeps the original position.
func (f *FontMap) Set(name string, font Font) {
	if f.fonts == nil {
		f.fonts = make(map[string]Font)
	}
	if _, ok := f.fonts[name]; !ok {
		f.names = append(f.names, name)
	}
	f.fonts[name] = font
}

// Get returns the font stored under name
func (f *FontMap) Get(name string) (Font, bool) {
	if f == nil {
		return Font{}, false
	}
	font, ok := f.fonts[name]
	return font, ok
}

// Names returns the font names in declaration order
func (f *FontMap) Names() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.names...)
}

// Len returns the number of fonts
func (f *FontMap) Len() int {
	if f == nil {
		return 0
	}
	return len(f.names)
}

// FallbackFontName returns the first declared font marked as fallback
func FallbackFontName(fonts *FontMap) (string, error) {
	for _, name := range fonts.Names() {
		if font, _ := fonts.Get(name); font.Fallback {
			return name, nil
		}
	}
	return "", ErrNoFallbackFont
}

func (f *FontMap) MarshalJSON() ([]byte, error) {
	out := []byte("{}")
	for _, name := range f.names {
		raw, err := json.Marshal(f.fonts[name])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal font %s: %w", name, err)
		}
		out, err = sjson.SetRawBytes(out, gjson.Escape(name), raw)
		if err != nil {
			return nil, fmt.Errorf("failed to set font %s: %w", name, err)
		}
	}
	return out, nil
}

func (f *FontMap) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return fmt.Errorf("fonts must be an object")
	}

	fonts := NewFontMap()
	var err error
	res.ForEach(func(key, value gjson.Result) bool {
		var font Font
		if err = json.Unmarshal([]byte(value.Raw), &font); err != nil {
			err = fmt.Errorf("failed to unmarshal font %s: %w", key.String(), err)
			return false
		}
		fonts.Set(key.String(), font)
		return true
	})
	if err != nil {
		return err
	}

	*f = *fonts
	return nil
}

func (f *FontMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("fonts must be a mapping (line %d)", value.Line)
	}

	fonts := NewFontMap()
	for i := 0; i+1 < len(value.Content); i += 2 {
		var font Font
		if err := value.Content[i+1].Decode(&font); err != nil {
			return fmt.Errorf("failed to decode font %s: %w", value.Content[i].Value, err)
		}
		fonts.Set(value.Content[i].Value, font)
	}

	*f = *fonts
	return nil
}
