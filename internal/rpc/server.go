package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/docforge/textpanel/internal/config"
	"github.com/docforge/textpanel/internal/indexer"
	"github.com/docforge/textpanel/internal/rpc/protocol"
	"github.com/docforge/textpanel/internal/snippet"
	"github.com/docforge/textpanel/internal/textschema"
	"github.com/docforge/textpanel/internal/theme"
	"github.com/sourcegraph/jsonrpc2"
)

// Version is reported in the initialize response
var Version = "dev"

// Server answers property panel requests from the editor host
type Server struct {
	rootPath    string
	cfg         *config.Config
	conn        *jsonrpc2.Conn
	connMu      sync.RWMutex
	hostCaps    protocol.HostCapabilities
	hostLocale  string
	indexers    map[string]indexer.Indexer
	indexerMu   sync.RWMutex
	fileScanner *indexer.FileScanner
	themes      *theme.ThemeIndexer
	snippets    *snippet.SnippetIndexer
	catalog     *snippet.Catalog
	messages    *snippet.MessageWriter
	watch       bool
}

// NewServer creates a server and registers the theme and locale indexers with the scanner
func NewServer(projectRoot string, cfg *config.Config, fileScanner *indexer.FileScanner, themes *theme.ThemeIndexer, snippets *snippet.SnippetIndexer) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	catalog, err := snippet.NewCatalog(snippets, cfg.DefaultLocale)
	if err != nil {
		return nil, err
	}

	s := &Server{
		rootPath:    projectRoot,
		cfg:         cfg,
		indexers:    make(map[string]indexer.Indexer),
		fileScanner: fileScanner,
		themes:      themes,
		snippets:    snippets,
		catalog:     catalog,
		messages:    snippet.NewMessageWriter(projectRoot, snippets, fileScanner),
	}

	s.RegisterIndexer(themes)
	s.RegisterIndexer(snippets)
	fileScanner.SetOnUpdate(s.filesUpdated)

	return s, nil
}

// EnableWatcher makes the server watch the project once the host is initialized
func (s *Server) EnableWatcher(watch bool) {
	s.watch = watch
}

// RegisterIndexer adds an indexer to the registry and to the file scanner
func (s *Server) RegisterIndexer(idx indexer.Indexer) {
	s.indexerMu.Lock()
	defer s.indexerMu.Unlock()
	s.indexers[idx.ID()] = idx
	s.fileScanner.AddIndexer(idx)
}

// GetIndexer retrieves an indexer by ID
func (s *Server) GetIndexer(id string) (indexer.Indexer, bool) {
	s.indexerMu.RLock()
	defer s.indexerMu.RUnlock()
	idx, ok := s.indexers[id]
	return idx, ok
}

// IndexAll builds or updates all indexes. forceReindex clears them first.
func (s *Server) IndexAll(ctx context.Context, forceReindex bool) error {
	startTime := time.Now()

	s.notify(ctx, protocol.NotifyIndexingStarted, map[string]any{
		"message": "Indexing started",
	})

	if forceReindex {
		if err := s.fileScanner.ClearHashes(); err != nil {
			return err
		}
	}

	if err := s.fileScanner.IndexAll(ctx); err != nil {
		return err
	}

	// A cleared index may not report removed locale files as updates
	if err := s.catalog.Reload(); err != nil {
		return err
	}

	s.notify(ctx, protocol.NotifyIndexingCompleted, protocol.IndexingCompletedParams{
		Message:       "Indexing completed",
		TimeInSeconds: time.Since(startTime).Seconds(),
	})

	return nil
}

// CloseAll stops the watcher and closes all registered indexers
func (s *Server) CloseAll() error {
	s.fileScanner.StopWatcher()

	s.indexerMu.RLock()
	defer s.indexerMu.RUnlock()

	var errs []error
	for _, idx := range s.indexers {
		if err := idx.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", idx.ID(), err))
		}
	}
	return errors.Join(errs...)
}

// Start serves JSON-RPC on in/out until the connection closes
func (s *Server) Start(in io.Reader, out io.Writer) error {
	conn := s.Connect(context.Background(), jsonrpc2.NewBufferedStream(rwc{in, out}, jsonrpc2.VSCodeObjectCodec{}))

	<-conn.DisconnectNotify()
	return nil
}

// Connect serves JSON-RPC on stream and returns the connection
func (s *Server) Connect(ctx context.Context, stream jsonrpc2.ObjectStream) *jsonrpc2.Conn {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	s.conn = jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(s.handle))
	return s.conn
}

// rwc combines a reader and writer into a single ReadWriteCloser
type rwc struct {
	io.Reader
	io.Writer
}

func (rwc) Close() error {
	return nil
}

func (s *Server) notify(ctx context.Context, method string, params any) {
	s.connMu.RLock()
	conn := s.conn
	s.connMu.RUnlock()

	if conn == nil {
		return
	}
	if err := conn.Notify(ctx, method, params); err != nil {
		log.Printf("Error sending %s: %v", method, err)
	}
}

// filesUpdated runs after the scanner indexed or removed files
func (s *Server) filesUpdated(paths []string) {
	var themeFiles []string
	localesChanged := false

	for _, path := range paths {
		if theme.IsThemeFile(path) {
			themeFiles = append(themeFiles, path)
		}
		if _, ok := snippet.LocaleFromPath(path); ok {
			localesChanged = true
		}
	}

	if localesChanged {
		if err := s.catalog.Reload(); err != nil {
			log.Printf("Error reloading messages: %v", err)
		}
	}

	if len(themeFiles) > 0 {
		s.notify(context.Background(), protocol.NotifyThemesChanged, protocol.ThemesChangedParams{Files: themeFiles})
	}
}

func decodeParams(req *jsonrpc2.Request, v any) error {
	if req.Params == nil || string(*req.Params) == "null" {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "missing params"}
	}
	if err := json.Unmarshal(*req.Params, v); err != nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}
	return nil
}

// handle processes incoming JSON-RPC requests and notifications
func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	if req.Method == protocol.MethodExit {
		log.Println("Received exit notification, exiting")
		if err := conn.Close(); err != nil {
			log.Printf("error closing connection: %v", err)
		}
		return nil, nil
	}

	switch req.Method {
	case protocol.MethodInitialize:
		var params protocol.InitializeParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		return s.initialize(&params), nil

	case protocol.MethodInitialized:
		go func() {
			if err := s.IndexAll(ctx, false); err != nil {
				log.Printf("Error indexing: %v", err)
				return
			}
			if s.watch {
				if err := s.fileScanner.StartWatcher(); err != nil {
					log.Printf("Error starting file watcher: %v", err)
				}
			}
		}()
		return nil, nil

	case protocol.MethodPropPanel:
		var params protocol.PropPanelParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		return s.PropPanel(ctx, &params)

	case protocol.MethodDefaultSchema:
		return protocol.DefaultSchemaResult{
			Schema:       textschema.DefaultSchema(),
			DefaultValue: textschema.DefaultValue,
		}, nil

	case protocol.MethodResolve:
		var params protocol.ResolveParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		return s.Resolve(&params)

	case protocol.MethodListThemes:
		return s.ListThemes()

	case protocol.MethodSetMessage:
		var params protocol.SetMessageParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		file, err := s.messages.SetMessage(ctx, params)
		if err != nil {
			if errors.Is(err, snippet.ErrInvalidMessage) {
				return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
			}
			return nil, err
		}
		return protocol.SetMessageResult{File: file}, nil

	case protocol.MethodForceReindex:
		go func() {
			if err := s.IndexAll(ctx, true); err != nil {
				log.Printf("Error force reindexing: %v", err)
			}
		}()
		return map[string]any{
			"message": "Force reindexing started",
		}, nil

	case protocol.MethodShutdown:
		if err := s.CloseAll(); err != nil {
			log.Printf("Error closing indexers: %v", err)
		}

		log.Println("Received shutdown request, waiting for exit notification")
		return nil, nil

	case protocol.MethodDidChangeWatchedFiles:
		var params protocol.DidChangeWatchedFilesParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		s.didChangeWatchedFiles(ctx, &params)
		return nil, nil

	default:
		if req.Notif {
			return nil, nil
		}
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "Method not implemented: " + req.Method}
	}
}

// initialize handles the initialize request
func (s *Server) initialize(params *protocol.InitializeParams) protocol.InitializeResult {
	if root := extractRootPath(params); root != "" && root != s.rootPath {
		log.Printf("Host workspace %s differs from project root %s", root, s.rootPath)
	}

	s.hostCaps = params.Capabilities
	s.hostLocale = params.Locale

	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			PropPanelProvider: true,
			ThemeProvider:     true,
			SchemaTypes:       []string{textschema.SchemaType},
			FileWatchers: []protocol.FileSystemWatcher{
				{GlobPattern: "**/*.theme.{json,yaml,yml}"},
				{GlobPattern: "**/{locales,i18n}/*.json"},
			},
		},
		ServerInfo: protocol.ServerInfo{
			Name:    "textpanel",
			Version: Version,
		},
	}
}

// extractRootPath extracts the host workspace root from the initialize params
func extractRootPath(params *protocol.InitializeParams) string {
	if params.RootPath != "" {
		return params.RootPath
	}
	if params.RootURI != "" {
		return uriToPath(params.RootURI)
	}
	if len(params.WorkspaceFolders) > 0 {
		return uriToPath(params.WorkspaceFolders[0].URI)
	}
	return ""
}

func uriToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

func (s *Server) didChangeWatchedFiles(ctx context.Context, params *protocol.DidChangeWatchedFilesParams) {
	var changed, deleted []string
	for _, change := range params.Changes {
		switch protocol.FileChangeType(change.Type) {
		case protocol.FileCreated, protocol.FileChanged:
			changed = append(changed, uriToPath(change.URI))
		case protocol.FileDeleted:
			deleted = append(deleted, uriToPath(change.URI))
		}
	}

	if len(changed) > 0 {
		if err := s.fileScanner.IndexFiles(ctx, changed); err != nil {
			log.Printf("Error indexing changed files: %v", err)
		}
	}
	if len(deleted) > 0 {
		if err := s.fileScanner.RemoveFiles(ctx, deleted); err != nil {
			log.Printf("Error removing deleted files: %v", err)
		}
	}
}
