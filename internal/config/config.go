package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docforge/textpanel/internal/propanel"
	"github.com/docforge/textpanel/internal/textschema"
	"github.com/docforge/textpanel/internal/theme"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// FileNames are the project config files, in lookup order
var FileNames = []string{".textpanel.jsonc", ".textpanel.json", ".textpanel.yaml", ".textpanel.yml"}

// Config is the per-project configuration
type Config struct {
	// ReferenceTheme names the indexed theme used when a request selects none
	ReferenceTheme string `json:"referenceTheme" yaml:"referenceTheme"`
	// DefaultLocale is used for requests without a locale
	DefaultLocale string `json:"defaultLocale" yaml:"defaultLocale"`
	// ThemeOptions replaces the built-in theme select options
	ThemeOptions []propanel.Option `json:"themeOptions,omitempty" yaml:"themeOptions"`
	// Fonts are used for requests that carry no fonts, in declaration order
	Fonts *textschema.FontMap `json:"fonts,omitempty" yaml:"fonts"`
	// SkipDirs are directory names never scanned, in addition to the defaults
	SkipDirs []string `json:"skipDirs,omitempty" yaml:"skipDirs"`

	// File is the path the config was loaded from, empty for defaults
	File string `json:"-" yaml:"-"`
}

// Default returns the configuration used when the project has no config file
func Default() *Config {
	return &Config{
		ReferenceTheme: theme.DefaultThemeName,
		DefaultLocale:  "en",
	}
}

// Load reads the first config file found in projectRoot. A project without
// a config file gets Default().
func Load(projectRoot string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(projectRoot, name)
		content, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		cfg, err := Parse(content, path)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return Default(), nil
}

// Parse decodes config content. The format follows the file extension;
// JSON may contain comments and trailing commas.
func Parse(content []byte, path string) (*Config, error) {
	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(content), cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}

	if cfg.ReferenceTheme == "" {
		cfg.ReferenceTheme = theme.DefaultThemeName
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = "en"
	}
	cfg.File = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that theme options are references and that fonts have a fallback
func (c *Config) Validate() error {
	for _, option := range c.ThemeOptions {
		if option.Label == "" {
			return fmt.Errorf("%w: theme option %q has no label", ErrInvalidConfig, option.Value)
		}
		if option.Value != "" && !IsReference(option.Value) {
			return fmt.Errorf("%w: theme option %q is not a reference like #primary.main#", ErrInvalidConfig, option.Value)
		}
	}

	if c.Fonts != nil {
		if _, err := textschema.FallbackFontName(c.Fonts); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	for _, dir := range c.SkipDirs {
		if strings.ContainsAny(dir, `/\`) {
			return fmt.Errorf("%w: skipDirs entry %q must be a directory name", ErrInvalidConfig, dir)
		}
	}
	return nil
}

// FontMap returns the configured fonts, nil when none are configured
func (c *Config) FontMap() *textschema.FontMap {
	return c.Fonts
}

// IsReference reports whether value has the "#path#" shape
func IsReference(value string) bool {
	return len(value) > 2 && strings.HasPrefix(value, "#") && strings.HasSuffix(value, "#")
}
