package lsp

import (
	"sync"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/texls/texls/internal/buildengine"
	"github.com/texls/texls/internal/config"
	"github.com/texls/texls/internal/diagnostics"
	"github.com/texls/texls/internal/log"
	"github.com/texls/texls/internal/reqqueue"
	"github.com/texls/texls/internal/workspace"
)

// diagnosticsDebounceWindow matches §8's "burst of N messages with the
// same key arriving within the window" property for didChange bursts.
const diagnosticsDebounceWindow = 250 * time.Millisecond

var _ ServerContext = (*Server)(nil)

// Server owns every long-lived dependency the dispatcher wires into
// handlers: the composed workspace, the diagnostics pipeline, the
// request-correlation queue, the build engine and the pulled/pushed
// configuration. Grounded on the teacher's Server struct (a thin bag of
// managers plus the glsp.Server it drives), generalized to this spec's
// dependency set.
type Server struct {
	mu       sync.Mutex
	ws       workspace.Workspace
	diags    *diagnostics.Manager
	debounce *diagnostics.Debouncer
	requests *reqqueue.Queue
	build    *buildengine.Engine
	cfg      config.ServerConfig
	rootPath string

	glspServer *glspserver.Server
	glspCtx    *glsp.Context
}

// NewServer assembles the full dependency chain and the protocol.Handler
// wired to it: the composed workspace (base store, child expander,
// parent expander), a diagnostics manager publishing through the current
// glsp.Context, a request queue, and a build engine.
func NewServer() (*Server, error) {
	s := &Server{
		cfg: config.DefaultConfig(),
	}
	s.ws = workspace.NewParentExpander(workspace.NewChildExpander(workspace.NewBase()))
	s.ws.RegisterOpenHandler(s.onDocumentOpened)
	s.diags = diagnostics.NewManager(s.publishDiagnostics)
	s.debounce = diagnostics.NewDebouncer(diagnosticsDebounceWindow, s.runDebouncedAnalysis)
	s.requests = reqqueue.New()
	s.build = buildengine.New()

	handler := protocol.Handler{
		Initialize:                      method(s, "initialize", Initialize),
		Initialized:                     notify(s, "initialized", Initialized),
		Shutdown:                        noParam(s, "shutdown", Shutdown),
		TextDocumentDidOpen:             notify(s, "textDocument/didOpen", DidOpen),
		TextDocumentDidChange:           notify(s, "textDocument/didChange", DidChange),
		TextDocumentDidSave:             notify(s, "textDocument/didSave", DidSave),
		TextDocumentDidClose:            notify(s, "textDocument/didClose", DidClose),
		TextDocumentHover:               method(s, "textDocument/hover", Hover),
		TextDocumentCompletion:          method(s, "textDocument/completion", Completion),
		CompletionItemResolve:           method(s, "completionItem/resolve", CompletionResolve),
		TextDocumentDefinition:          method(s, "textDocument/definition", Definition),
		TextDocumentReferences:          method(s, "textDocument/references", References),
		TextDocumentDocumentHighlight:   method(s, "textDocument/documentHighlight", DocumentHighlight),
		TextDocumentDocumentSymbol:      method(s, "textDocument/documentSymbol", DocumentSymbol),
		TextDocumentDocumentLink:        method(s, "textDocument/documentLink", DocumentLink),
		TextDocumentFoldingRange:        method(s, "textDocument/foldingRange", FoldingRange),
		TextDocumentFormatting:          method(s, "textDocument/formatting", Formatting),
		TextDocumentPrepareRename:       method(s, "textDocument/prepareRename", PrepareRename),
		TextDocumentRename:              method(s, "textDocument/rename", Rename),
		TextDocumentSemanticTokensRange: method(s, "textDocument/semanticTokens/range", SemanticTokensRange),
		WorkspaceSymbol:                 method(s, "workspace/symbol", WorkspaceSymbol),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", DidChangeConfiguration),
	}

	custom := &CustomHandler{Handler: &handler, server: s}
	s.glspServer = glspserver.NewServer(custom, "texls", false)
	return s, nil
}

// RunStdio starts the server on stdio transport (§6 wire protocol).
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// Workspace returns the composed workspace layer chain.
func (s *Server) Workspace() workspace.Workspace { return s.ws }

// Diagnostics returns the diagnostics manager.
func (s *Server) Diagnostics() *diagnostics.Manager { return s.diags }

// Debouncer returns the diagnostics debouncer.
func (s *Server) Debouncer() *diagnostics.Debouncer { return s.debounce }

// Requests returns the request-correlation queue.
func (s *Server) Requests() *reqqueue.Queue { return s.requests }

// Build returns the build engine.
func (s *Server) Build() *buildengine.Engine { return s.build }

// Config returns the current server configuration.
func (s *Server) Config() config.ServerConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SetConfig replaces the current server configuration, (re)starting the
// auxiliary-directory watch if the configured path changed (§4.3).
func (s *Server) SetConfig(cfg config.ServerConfig) {
	s.mu.Lock()
	prevAux := s.cfg.AuxDirectory
	s.cfg = cfg
	s.mu.Unlock()

	if cfg.AuxDirectory != prevAux {
		if err := s.ws.Watch(cfg.AuxDirectory); err != nil {
			log.Warn("server: aux directory watch failed: %v", err)
		}
	}
}

// RootPath returns the workspace root path set at initialize time.
func (s *Server) RootPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rootPath
}

// SetRootPath records the workspace root path.
func (s *Server) SetRootPath(path string) {
	s.mu.Lock()
	s.rootPath = path
	s.mu.Unlock()
}

// GLSPContext returns the most recently seen glsp.Context, used for
// server-initiated notifications outside a request's own handler (e.g. a
// debounced diagnostics run).
func (s *Server) GLSPContext() *glsp.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.glspCtx
}

// SetGLSPContext records the glsp.Context of the most recent request.
func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.mu.Lock()
	s.glspCtx = ctx
	s.mu.Unlock()
}

func (s *Server) publishDiagnostics(uri string, diags []protocol.Diagnostic) {
	ctx := s.GLSPContext()
	if ctx == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}
