package lsp

import (
	"context"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls/texls/internal/diagnostics"
	"github.com/texls/texls/internal/documents"
	"github.com/texls/texls/internal/uri"
)

// DidOpen handles textDocument/didOpen: publishes the new snapshot, which
// fans out through the workspace's registered open-handlers (parent/child
// expansion, then this server's own diagnostics handler, which analyzes
// the document right away rather than through the debouncer) (§4.1, §4.5).
func DidOpen(req *RequestContext, params *protocol.DidOpenTextDocumentParams) error {
	req.Server.SetGLSPContext(req.GLSP)
	u := uri.Parse(params.TextDocument.URI)
	req.Server.Workspace().Open(u, params.TextDocument.Text, documents.DetectLanguage(u))
	return nil
}

// DidChange handles textDocument/didChange, splicing the reported changes
// into the current snapshot and scheduling a debounced re-analysis
// (§4.5, §8 debounce property).
func DidChange(req *RequestContext, params *protocol.DidChangeTextDocumentParams) error {
	req.Server.SetGLSPContext(req.GLSP)
	u := uri.Parse(params.TextDocument.URI)
	changes := make([]protocol.TextDocumentContentChangeEvent, 0, len(params.ContentChanges))
	for _, c := range params.ContentChanges {
		if event, ok := c.(protocol.TextDocumentContentChangeEvent); ok {
			changes = append(changes, event)
		}
	}
	if _, err := req.Server.Workspace().Edit(u, changes); err != nil {
		return err
	}
	req.Server.Debouncer().Schedule(u.String(), u.String())
	return nil
}

// DidSave handles textDocument/didSave: runs the external linter if
// chktex.on_open_and_save is enabled, and kicks off a build if
// build.on_save is enabled (§6).
func DidSave(req *RequestContext, params *protocol.DidSaveTextDocumentParams) error {
	req.Server.SetGLSPContext(req.GLSP)
	u := uri.Parse(params.TextDocument.URI)
	cfg := req.Server.Config()

	if cfg.Chktex.OnOpenAndSave {
		runExternalLint(req, u)
	}

	if cfg.Build.OnSave {
		root := buildRootFor(req, u)
		go req.Server.Build().Build(context.Background(), root, buildConfig(cfg), logBuildLine(req.Server), noToken())
	}
	return nil
}

// DidClose handles textDocument/didClose: the client-opened flag is
// cleared and diagnostics for the closed document are dropped if nothing
// else references it (§3 lifecycle, §4.5).
func DidClose(req *RequestContext, params *protocol.DidCloseTextDocumentParams) error {
	u := uri.Parse(params.TextDocument.URI)
	req.Server.Workspace().Close(u)
	if req.Server.Workspace().Get(u) == nil {
		req.Server.Diagnostics().Forget(u.String())
	}
	return nil
}

// onDocumentOpened is registered as the outermost workspace open-handler:
// it runs after parent/child expansion has already grown the subset, so
// cross-document analyses (duplicate labels, unresolved references) see
// the final subset for this open (§4.2, §4.5).
func (s *Server) onDocumentOpened(doc *documents.Document) {
	s.analyze(doc.Uri.String())
}

func (s *Server) runDebouncedAnalysis(key string, payload interface{}) {
	s.analyze(key)
}

func (s *Server) analyze(uriString string) {
	u := uri.Parse(uriString)
	doc := s.Workspace().Get(u)
	if doc == nil {
		return
	}

	switch {
	case doc.Latex != nil:
		s.Diagnostics().SetStatic(uriString, diagnostics.AnalyzeLatexStructure(doc.Latex.Root, doc.Index))
		s.analyzeSubset(doc.Uri)
	case doc.Bibtex != nil:
		s.Diagnostics().SetStatic(uriString, diagnostics.AnalyzeBibtex(doc.Bibtex.Root, doc.Index))
	}

	cfg := s.Config()
	if cfg.Chktex.OnEdit {
		go s.runLintInBackground(u)
	}
}

// analyzeSubset recomputes the cross-document diagnostics (duplicate
// labels, unresolved references) for root's whole subset and republishes
// each member's merged diagnostics (§4.5).
func (s *Server) analyzeSubset(root uri.Uri) {
	subset := s.Workspace().Subset(root)
	if len(subset) == 0 {
		return
	}
	dupes := diagnostics.AnalyzeLatexDuplicateLabels(subset)
	for _, doc := range subset {
		if doc.Latex == nil {
			continue
		}
		unresolved := diagnostics.AnalyzeLatexUnresolvedReferences(doc, subset)
		external := append([]diagnostics.Diagnostic{}, dupes[doc.Uri.String()]...)
		external = append(external, unresolved...)
		s.Diagnostics().SetExternal(doc.Uri.String(), external)
	}
}

func (s *Server) runLintInBackground(u uri.Uri) {
	doc := s.Workspace().Get(u)
	if doc == nil {
		return
	}
	cfg := s.Config()
	if cfg.AuxDirectory == "" {
		return
	}
	diags, err := diagnostics.RunLinter(context.Background(), diagnostics.LinterConfig{}, doc.Text, doc.Index)
	if err != nil {
		return
	}
	s.Diagnostics().SetExternal(u.String(), diags)
}

func runExternalLint(req *RequestContext, u uri.Uri) {
	doc := req.Server.Workspace().Get(u)
	if doc == nil {
		return
	}
	diags, err := diagnostics.RunLinter(context.Background(), diagnostics.LinterConfig{}, doc.Text, doc.Index)
	if err != nil {
		req.Warn(err)
		return
	}
	req.Server.Diagnostics().SetExternal(u.String(), diags)
}
