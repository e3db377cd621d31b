package rpc

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/docforge/textpanel/internal/rpc/protocol"
	"github.com/docforge/textpanel/internal/textschema"
	"github.com/docforge/textpanel/internal/theme"
	"github.com/sourcegraph/jsonrpc2"
)

// selectTheme returns the theme a request is evaluated against
func (s *Server) selectTheme(sel protocol.ThemeSelection) (*theme.Theme, error) {
	if sel.Theme != nil {
		if sel.Theme.Name == "" {
			sel.Theme.Name = "inline"
		}
		return sel.Theme, nil
	}

	if sel.ThemeName != "" {
		t, err := s.lookupTheme(sel.ThemeName)
		if err != nil {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
		}
		return t, nil
	}

	t, err := s.lookupTheme(s.cfg.ReferenceTheme)
	if err != nil {
		if !errors.Is(err, theme.ErrThemeNotFound) {
			return nil, err
		}
		if s.cfg.ReferenceTheme != theme.DefaultThemeName {
			log.Printf("Reference theme %s is not indexed, using the built-in theme", s.cfg.ReferenceTheme)
		}
		return theme.DefaultTheme(), nil
	}
	return t, nil
}

// lookupTheme finds an indexed theme. The built-in theme answers to its
// name unless the project defines a theme with the same name.
func (s *Server) lookupTheme(name string) (*theme.Theme, error) {
	t, err := s.themes.GetTheme(name)
	if errors.Is(err, theme.ErrThemeNotFound) && name == theme.DefaultThemeName {
		return theme.DefaultTheme(), nil
	}
	return t, err
}

// PropPanel syncs the active element with the selected theme and builds its panel
func (s *Server) PropPanel(ctx context.Context, params *protocol.PropPanelParams) (*protocol.PropPanelResult, error) {
	t, err := s.selectTheme(params.ThemeSelection)
	if err != nil {
		return nil, err
	}

	changes := textschema.Sync(params.ActiveSchema, t)

	locale := params.Locale
	if locale == "" {
		locale = s.hostLocale
	}

	fonts := params.Fonts
	if fonts == nil {
		fonts = s.cfg.FontMap()
	}

	panel, err := textschema.BuildPanel(params.ActiveSchema, textschema.PanelOptions{
		Fonts:        fonts,
		ThemeOptions: s.cfg.ThemeOptions,
	}, s.catalog.Translator(locale))
	if err != nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}

	if len(changes) > 0 && s.hostCaps.ChangeSchemas {
		s.notify(ctx, protocol.NotifyChangeSchemas, protocol.ChangeSchemasParams{Changes: changes})
	}

	if changes == nil {
		changes = []textschema.Change{}
	}

	return &protocol.PropPanelResult{
		Schema:  panel,
		Changes: changes,
		Theme:   t.Name,
	}, nil
}

// Resolve resolves a reference against the selected theme
func (s *Server) Resolve(params *protocol.ResolveParams) (*protocol.ResolveResult, error) {
	t, err := s.selectTheme(params.ThemeSelection)
	if err != nil {
		return nil, err
	}

	result := &protocol.ResolveResult{
		Value: theme.Resolve(params.Reference, t, params.Fallback),
		Theme: t.Name,
	}
	if !params.Reference.IsEmpty() {
		result.Kind = theme.Walk(t.Palette, params.Reference.Keys()).Kind.String()
	}
	return result, nil
}

// ListThemes lists the indexed themes and the built-in theme
func (s *Server) ListThemes() (*protocol.ListThemesResult, error) {
	themes, err := s.themes.ListThemes()
	if err != nil {
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}

	result := &protocol.ListThemesResult{Themes: []protocol.ThemeInfo{}}
	hasDefault := false
	for _, t := range themes {
		if t.Name == theme.DefaultThemeName {
			hasDefault = true
		}
		result.Themes = append(result.Themes, protocol.ThemeInfo{
			Name:     t.Name,
			File:     t.File,
			Line:     t.Line,
			Revision: t.Revision,
		})
	}

	if !hasDefault {
		result.Themes = append(result.Themes, protocol.ThemeInfo{
			Name:    theme.DefaultThemeName,
			BuiltIn: true,
		})
	}
	return result, nil
}
