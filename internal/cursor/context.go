package cursor

import (
	"context"

	"github.com/texls/texls/internal/documents"
	"github.com/texls/texls/internal/uri"
	"github.com/texls/texls/internal/workspace"
)

// FeatureRequest carries everything a feature handler (hover, definition,
// references, rename, ...) needs: the standard request context, the raw
// LSP params, the workspace handle, and a subset computed once up front
// so the handler sees a consistent snapshot even if the workspace
// mutates (a client-driven edit, a file-watcher reload) while the
// handler is still running (§4.6).
type FeatureRequest[P any] struct {
	Ctx       context.Context
	Params    P
	Workspace workspace.Workspace
	Document  *documents.Document
	Subset    []*documents.Document
}

// NewFeatureRequest computes the WorkspaceSubset for uri and packages it
// with the rest of the handler's inputs.
func NewFeatureRequest[P any](ctx context.Context, params P, ws workspace.Workspace, u uri.Uri) *FeatureRequest[P] {
	doc := ws.Get(u)
	var subset []*documents.Document
	if doc != nil {
		subset = ws.Subset(u)
	}
	return &FeatureRequest[P]{
		Ctx:       ctx,
		Params:    params,
		Workspace: ws,
		Document:  doc,
		Subset:    subset,
	}
}

// Context classifies where in the syntax tree a position falls, combining
// the Cursor with the owning Document so handlers don't need to re-derive
// language/verbatim state.
type Context struct {
	Cursor   *Cursor
	Document *documents.Document
}

// NewContext derives a Context for a position in doc, dispatching to the
// LaTeX or BibTeX cursor rules by the document's detected language.
func NewContext(doc *documents.Document, offset int) *Context {
	if doc == nil {
		return &Context{}
	}
	switch {
	case doc.Latex != nil:
		return &Context{Cursor: NewLatex(doc.Latex.Root, offset), Document: doc}
	case doc.Bibtex != nil:
		return &Context{Cursor: NewBibtex(doc.Bibtex.Root, offset), Document: doc}
	default:
		return &Context{Document: doc}
	}
}
