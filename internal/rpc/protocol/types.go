package protocol

import (
	"github.com/docforge/textpanel/internal/propanel"
	"github.com/docforge/textpanel/internal/snippet"
	"github.com/docforge/textpanel/internal/textschema"
	"github.com/docforge/textpanel/internal/theme"
)

// Method names
const (
	MethodInitialize            = "initialize"
	MethodInitialized           = "initialized"
	MethodShutdown              = "shutdown"
	MethodExit                  = "exit"
	MethodPropPanel             = "textSchema/propPanel"
	MethodDefaultSchema         = "textSchema/defaultSchema"
	MethodResolve               = "theme/resolve"
	MethodListThemes            = "theme/list"
	MethodSetMessage            = "i18n/setMessage"
	MethodForceReindex          = "textpanel/forceReindex"
	MethodDidChangeWatchedFiles = "workspace/didChangeWatchedFiles"

	NotifyChangeSchemas     = "editor/changeSchemas"
	NotifyThemesChanged     = "textpanel/themesChanged"
	NotifyIndexingStarted   = "textpanel/indexingStarted"
	NotifyIndexingCompleted = "textpanel/indexingCompleted"
)

type WorkspaceFolder struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

// HostCapabilities are the features the editor host supports
type HostCapabilities struct {
	// ChangeSchemas means the host applies editor/changeSchemas notifications
	ChangeSchemas bool `json:"changeSchemas"`
}

type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type InitializeParams struct {
	ProcessID        int               `json:"processId,omitempty"`
	RootPath         string            `json:"rootPath,omitempty"`
	RootURI          string            `json:"rootUri,omitempty"`
	WorkspaceFolders []WorkspaceFolder `json:"workspaceFolders,omitempty"`
	Locale           string            `json:"locale,omitempty"`
	ClientInfo       *ClientInfo       `json:"clientInfo,omitempty"`
	Capabilities     HostCapabilities  `json:"capabilities"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type ServerCapabilities struct {
	PropPanelProvider bool                `json:"propPanelProvider"`
	ThemeProvider     bool                `json:"themeProvider"`
	SchemaTypes       []string            `json:"schemaTypes"`
	FileWatchers      []FileSystemWatcher `json:"fileWatchers"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

// ThemeSelection picks the theme of a request: an inline theme wins over a
// theme name, which wins over the project reference theme.
type ThemeSelection struct {
	Theme     *theme.Theme `json:"theme,omitempty"`
	ThemeName string       `json:"themeName,omitempty"`
}

type PropPanelParams struct {
	ThemeSelection
	ActiveSchema *textschema.TextSchema `json:"activeSchema,omitempty"`
	Fonts        *textschema.FontMap    `json:"fonts,omitempty"`
	Locale       string                 `json:"locale,omitempty"`
}

type PropPanelResult struct {
	Schema  *propanel.Schema    `json:"schema"`
	Changes []textschema.Change `json:"changes"`
	Theme   string              `json:"theme"`
}

type ChangeSchemasParams struct {
	Changes []textschema.Change `json:"changes"`
}

type DefaultSchemaResult struct {
	Schema       textschema.TextSchema `json:"schema"`
	DefaultValue string                `json:"defaultValue"`
}

type ResolveParams struct {
	ThemeSelection
	Reference theme.Reference `json:"reference"`
	Fallback  string          `json:"fallback"`
}

type ResolveResult struct {
	Value theme.Value `json:"value"`
	Kind  string      `json:"kind"`
	Theme string      `json:"theme"`
}

type ThemeInfo struct {
	Name     string `json:"name"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Revision string `json:"revision,omitempty"`
	BuiltIn  bool   `json:"builtIn,omitempty"`
}

type ListThemesResult struct {
	Themes []ThemeInfo `json:"themes"`
}

type ThemesChangedParams struct {
	Files []string `json:"files"`
}

type SetMessageParams = snippet.SetMessageParams

type SetMessageResult struct {
	File string `json:"file"`
}

type IndexingCompletedParams struct {
	Message       string  `json:"message"`
	TimeInSeconds float64 `json:"timeInSeconds"`
}
