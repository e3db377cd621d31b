package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/docforge/textpanel/internal/config"
	"github.com/docforge/textpanel/internal/indexer"
	"github.com/docforge/textpanel/internal/rpc"
	"github.com/docforge/textpanel/internal/rpc/protocol"
	"github.com/docforge/textpanel/internal/snippet"
	"github.com/docforge/textpanel/internal/textschema"
	"github.com/docforge/textpanel/internal/theme"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
)

var (
	projectRoot    string
	cacheDir       string
	locale         string
	referenceTheme string
	watch          bool

	themeFile  string
	themeName  string
	fallback   string
	schemaFile string
	color      bool
)

var rootCmd = &cobra.Command{
	Use:   "textpanel",
	Short: "textpanel - property panel service for text elements",
	Long:  "textpanel answers property panel and theme requests from a template editor over JSON-RPC on stdio.",
	Run:   serve,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve REFERENCE",
	Short: "Resolve a theme reference such as #primary.main#",
	Args:  cobra.ExactArgs(1),
	Run:   runResolve,
}

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Print the property panel and pending changes for a text element",
	Run:   runPanel,
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the themes of the project",
	Run:   runThemes,
}

func init() {
	wd, _ := os.Getwd()
	rootCmd.Version = rpc.Version
	rootCmd.PersistentFlags().StringVar(&projectRoot, "project-root", wd, "Project directory scanned for themes and locales")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Index cache directory (default: per-project directory in the user config dir)")
	rootCmd.PersistentFlags().StringVar(&locale, "locale", "", "Default locale (overrides the project config)")
	rootCmd.PersistentFlags().StringVar(&referenceTheme, "reference-theme", "", "Theme used when a request selects none (overrides the project config)")
	rootCmd.Flags().BoolVar(&watch, "watch", true, "Watch the project for theme and locale changes")

	for _, cmd := range []*cobra.Command{resolveCmd, panelCmd} {
		cmd.Flags().StringVar(&themeFile, "theme", "", "Theme file (.theme.json or .theme.yaml)")
		cmd.Flags().StringVar(&themeName, "theme-name", "", "Name of an indexed theme")
		cmd.Flags().BoolVar(&color, "color", false, "Colorize the JSON output")
	}
	resolveCmd.Flags().StringVar(&fallback, "fallback", "", "Value used when the reference lands on a mapping")
	panelCmd.Flags().StringVar(&schemaFile, "schema", "", "JSON file holding the active text element")
	themesCmd.Flags().BoolVar(&color, "color", false, "Colorize the JSON output")

	rootCmd.AddCommand(resolveCmd, panelCmd, themesCmd)
}

func main() {
	// stdout carries the JSON-RPC stream
	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// project holds everything opened for one project root
type project struct {
	server  *rpc.Server
	scanner *indexer.FileScanner
}

func (p *project) Close() {
	if err := p.server.CloseAll(); err != nil {
		log.Printf("Error closing indexers: %v", err)
	}
	if err := p.scanner.Close(); err != nil {
		log.Printf("Error closing file scanner: %v", err)
	}
}

func openProject(cmd *cobra.Command) (*project, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("locale") {
		cfg.DefaultLocale = locale
	}
	if cmd.Flags().Changed("reference-theme") {
		cfg.ReferenceTheme = referenceTheme
	}

	cache := cacheDir
	if cache == "" {
		cache, err = getProjectCacheFolder(root)
		if err != nil {
			return nil, err
		}
	}

	cleared, err := indexer.CheckAndMigrateCache(cache)
	if err != nil {
		return nil, err
	}
	if cleared {
		log.Printf("Index cache %s was reset", cache)
	}

	scanner, err := indexer.NewFileScanner(root, filepath.Join(cache, "files.db"))
	if err != nil {
		return nil, err
	}
	scanner.SkipDirs(cfg.SkipDirs...)

	themes, err := theme.NewThemeIndexer(cache)
	if err != nil {
		_ = scanner.Close()
		return nil, fmt.Errorf("failed to create theme indexer: %w", err)
	}

	snippets, err := snippet.NewSnippetIndexer(cache)
	if err != nil {
		_ = themes.Close()
		_ = scanner.Close()
		return nil, fmt.Errorf("failed to create snippet indexer: %w", err)
	}

	server, err := rpc.NewServer(root, cfg, scanner, themes, snippets)
	if err != nil {
		_ = snippets.Close()
		_ = themes.Close()
		_ = scanner.Close()
		return nil, err
	}

	return &project{server: server, scanner: scanner}, nil
}

func serve(cmd *cobra.Command, args []string) {
	p, err := openProject(cmd)
	if err != nil {
		log.Fatalf("Failed to open project: %v", err)
	}
	defer p.Close()

	p.server.EnableWatcher(watch)

	if err := p.server.Start(os.Stdin, os.Stdout); err != nil {
		log.Fatalf("JSON-RPC server error: %v", err)
	}
}

// openIndexedProject opens the project and brings its index up to date
func openIndexedProject(cmd *cobra.Command) *project {
	p, err := openProject(cmd)
	if err != nil {
		log.Fatalf("Failed to open project: %v", err)
	}
	if err := p.server.IndexAll(cmd.Context(), false); err != nil {
		p.Close()
		log.Fatalf("Failed to index project: %v", err)
	}
	return p
}

func themeSelection() (protocol.ThemeSelection, error) {
	sel := protocol.ThemeSelection{ThemeName: themeName}
	if themeFile != "" {
		t, err := theme.LoadThemeFile(themeFile)
		if err != nil {
			return sel, err
		}
		sel.Theme = t
	}
	return sel, nil
}

func runResolve(cmd *cobra.Command, args []string) {
	p := openIndexedProject(cmd)
	defer p.Close()

	sel, err := themeSelection()
	if err != nil {
		log.Fatalf("%v", err)
	}

	result, err := p.server.Resolve(&protocol.ResolveParams{
		ThemeSelection: sel,
		Reference:      theme.Reference(args[0]),
		Fallback:       fallback,
	})
	if err != nil {
		log.Fatalf("Failed to resolve %s: %v", args[0], err)
	}
	printJSON(result)
}

func runPanel(cmd *cobra.Command, args []string) {
	p := openIndexedProject(cmd)
	defer p.Close()

	sel, err := themeSelection()
	if err != nil {
		log.Fatalf("%v", err)
	}

	params := &protocol.PropPanelParams{ThemeSelection: sel, Locale: locale}
	if schemaFile != "" {
		content, err := os.ReadFile(schemaFile)
		if err != nil {
			log.Fatalf("Failed to read schema: %v", err)
		}
		var element textschema.TextSchema
		if err := json.Unmarshal(content, &element); err != nil {
			log.Fatalf("Failed to parse schema %s: %v", schemaFile, err)
		}
		params.ActiveSchema = &element
	}

	result, err := p.server.PropPanel(cmd.Context(), params)
	if err != nil {
		log.Fatalf("Failed to build panel: %v", err)
	}
	printJSON(result)
}

func runThemes(cmd *cobra.Command, args []string) {
	p := openIndexedProject(cmd)
	defer p.Close()

	result, err := p.server.ListThemes()
	if err != nil {
		log.Fatalf("%v", err)
	}
	printJSON(result)
}

func printJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}

	out := pretty.Pretty(data)
	if color {
		out = pretty.Color(out, nil)
	}
	_, _ = os.Stdout.Write(out)
}
