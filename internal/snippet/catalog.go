package snippet

import (
	_ "embed"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/nicksnyder/go-i18n/v2/i18n/template"
	"github.com/tidwall/gjson"
	"golang.org/x/text/language"
)

//go:embed locales/en.json
var defaultMessages []byte

// Translator maps a message key to its text
type Translator func(key string) string

// SnippetSource provides project messages for the catalog
type SnippetSource interface {
	GetSnippets() ([]Snippet, error)
}

// Catalog resolves message keys against the project locale files, falling
// back to the embedded English messages and finally to the key itself.
type Catalog struct {
	mu            sync.RWMutex
	source        SnippetSource
	defaultLocale string
	bundle        *i18n.Bundle
	localizers    map[string]*i18n.Localizer
}

// NewCatalog creates a catalog and loads its messages. source may be nil.
func NewCatalog(source SnippetSource, defaultLocale string) (*Catalog, error) {
	c := &Catalog{
		source:        source,
		defaultLocale: defaultLocale,
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload rebuilds the message bundle from the embedded defaults and the source
func (c *Catalog) Reload() error {
	bundle := i18n.NewBundle(language.English)

	var defaults []*i18n.Message
	for key, text := range FlattenMessages(defaultMessages) {
		defaults = append(defaults, &i18n.Message{ID: key, Other: text})
	}
	if err := bundle.AddMessages(language.English, defaults...); err != nil {
		return fmt.Errorf("failed to load default messages: %w", err)
	}

	if c.source != nil {
		snippets, err := c.source.GetSnippets()
		if err != nil {
			return fmt.Errorf("failed to load project messages: %w", err)
		}

		byLocale := make(map[language.Tag][]*i18n.Message)
		for _, snippet := range snippets {
			tag, err := parseLocale(snippet.Locale)
			if err != nil {
				log.Printf("Skipping messages of %s: %v", snippet.File, err)
				continue
			}
			byLocale[tag] = append(byLocale[tag], &i18n.Message{ID: snippet.Key, Other: snippet.Text})
		}

		for tag, messages := range byLocale {
			if err := bundle.AddMessages(tag, messages...); err != nil {
				return fmt.Errorf("failed to load messages for %s: %w", tag, err)
			}
		}
	}

	c.mu.Lock()
	c.bundle = bundle
	c.localizers = make(map[string]*i18n.Localizer)
	c.mu.Unlock()

	return nil
}

// Translator returns a translator for locale. An empty locale uses the
// catalog default.
func (c *Catalog) Translator(locale string) Translator {
	if locale == "" {
		locale = c.defaultLocale
	}
	localizer := c.localizer(locale)

	return func(key string) string {
		// Messages are plain text, braces included.
		// A message served from the fallback language may come with an error.
		text, _ := localizer.Localize(&i18n.LocalizeConfig{
			MessageID:      key,
			TemplateParser: template.IdentityParser{},
		})
		if text == "" {
			return key
		}
		return text
	}
}

func (c *Catalog) localizer(locale string) *i18n.Localizer {
	c.mu.RLock()
	localizer, ok := c.localizers[locale]
	bundle := c.bundle
	c.mu.RUnlock()
	if ok {
		return localizer
	}

	localizer = i18n.NewLocalizer(bundle, normalizeLocale(locale), normalizeLocale(c.defaultLocale))

	c.mu.Lock()
	if c.bundle == bundle {
		c.localizers[locale] = localizer
	}
	c.mu.Unlock()

	return localizer
}

// FlattenMessages flattens a nested JSON message document into dotted keys.
// Non-string scalars keep their literal text, null values are dropped.
func FlattenMessages(document []byte) map[string]string {
	result := make(map[string]string)
	flatten("", gjson.ParseBytes(document), result)
	return result
}

func flatten(prefix string, value gjson.Result, result map[string]string) {
	value.ForEach(func(key, child gjson.Result) bool {
		path := key.String()
		if prefix != "" {
			path = prefix + "." + path
		}

		switch {
		case child.IsObject():
			flatten(path, child, result)
		case child.Type == gjson.String:
			result[path] = child.Str
		case child.Type == gjson.Number, child.Type == gjson.True, child.Type == gjson.False:
			result[path] = child.Raw
		}
		return true
	})
}

func normalizeLocale(locale string) string {
	return strings.ReplaceAll(locale, "_", "-")
}

func parseLocale(locale string) (language.Tag, error) {
	return language.Parse(normalizeLocale(locale))
}
