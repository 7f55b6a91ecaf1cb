package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls/texls/internal/cursor"
	"github.com/texls/texls/internal/documents"
	"github.com/texls/texls/internal/syntax"
	"github.com/texls/texls/internal/syntax/bibtex"
	"github.com/texls/texls/internal/syntax/latex"
	"github.com/texls/texls/internal/uri"
)

// Definition handles textDocument/definition: \ref{name} jumps to the
// LABEL_DEFINITION in the document's subset, and \cite{key} jumps to the
// matching BibTeX entry (§4.9, §C supplemented navigation).
func Definition(req *RequestContext, params *protocol.DefinitionParams) (any, error) {
	u := uri.Parse(params.TextDocument.URI)
	doc := req.Server.Workspace().Get(u)
	if doc == nil || doc.Latex == nil {
		return nil, nil
	}

	offset := doc.Index.PositionToOffset(params.Position)
	featCtx := cursor.NewLatex(doc.Latex.Root, offset)
	if featCtx.IsNothing() {
		return nil, nil
	}
	cmd := latex.EnclosingWordCommand(featCtx.Node)
	if cmd == nil {
		return nil, nil
	}

	subset := req.Server.Workspace().Subset(u)
	switch cmd.Kind {
	case latex.LABEL_REFERENCE:
		names := latex.ReferenceNames(cmd)
		if len(names) == 0 {
			return nil, nil
		}
		return labelDefinitionLocation(subset, names[0]), nil
	case latex.CITATION:
		names := latex.ReferenceNames(cmd)
		if len(names) == 0 {
			return nil, nil
		}
		return citationEntryLocation(subset, names[0]), nil
	}
	return nil, nil
}

func labelDefinitionLocation(subset []*documents.Document, name string) *protocol.Location {
	for _, doc := range subset {
		if doc.Latex == nil {
			continue
		}
		def := latex.FindLabelDefinition(doc.Latex.Root, name)
		if def == nil {
			continue
		}
		return &protocol.Location{
			URI:   doc.Uri.String(),
			Range: doc.Index.RangeToLSP(def.Start, def.End),
		}
	}
	return nil
}

func citationEntryLocation(subset []*documents.Document, key string) *protocol.Location {
	for _, doc := range subset {
		if doc.Bibtex == nil {
			continue
		}
		for _, entry := range bibtex.Entries(doc.Bibtex.Root) {
			if bibtex.EntryKey(entry) == key {
				return &protocol.Location{
					URI:   doc.Uri.String(),
					Range: doc.Index.RangeToLSP(entry.Start, entry.End),
				}
			}
		}
	}
	return nil
}

// References handles textDocument/references: for a LABEL_DEFINITION,
// every LABEL_REFERENCE in the subset naming it; for a referenced label,
// the same set (§4.9, §C).
func References(req *RequestContext, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	u := uri.Parse(params.TextDocument.URI)
	doc := req.Server.Workspace().Get(u)
	if doc == nil || doc.Latex == nil {
		return nil, nil
	}

	offset := doc.Index.PositionToOffset(params.Position)
	featCtx := cursor.NewLatex(doc.Latex.Root, offset)
	if featCtx.IsNothing() {
		return nil, nil
	}

	name := labelNameAtCursor(featCtx.Node)
	if name == "" {
		return nil, nil
	}

	subset := req.Server.Workspace().Subset(u)
	var out []protocol.Location
	for _, d := range subset {
		if d.Latex == nil {
			continue
		}
		for _, n := range d.Latex.Root.Descendants() {
			if n.Kind != latex.LABEL_REFERENCE {
				continue
			}
			for _, ref := range latex.ReferenceNames(n) {
				if ref == name {
					out = append(out, protocol.Location{
						URI:   d.Uri.String(),
						Range: d.Index.RangeToLSP(n.Start, n.End),
					})
				}
			}
		}
		if params.Context.IncludeDeclaration {
			if def := latex.FindLabelDefinition(d.Latex.Root, name); def != nil {
				out = append(out, protocol.Location{
					URI:   d.Uri.String(),
					Range: d.Index.RangeToLSP(def.Start, def.End),
				})
			}
		}
	}
	return out, nil
}

// labelNameAtCursor returns the label name the cursor is positioned on,
// whether it's a LABEL_DEFINITION's own key or a LABEL_REFERENCE's key.
func labelNameAtCursor(n *syntax.Node) string {
	cmd := latex.EnclosingWordCommand(n)
	if cmd == nil {
		return ""
	}
	switch cmd.Kind {
	case latex.LABEL_DEFINITION:
		return latex.LabelName(cmd)
	case latex.LABEL_REFERENCE:
		names := latex.ReferenceNames(cmd)
		if len(names) > 0 {
			return names[0]
		}
	}
	return ""
}

// DocumentHighlight handles textDocument/documentHighlight: every
// reference to the label at the cursor, within the current document only
// (§4.9).
func DocumentHighlight(req *RequestContext, params *protocol.DocumentHighlightParams) ([]protocol.DocumentHighlight, error) {
	u := uri.Parse(params.TextDocument.URI)
	doc := req.Server.Workspace().Get(u)
	if doc == nil || doc.Latex == nil {
		return nil, nil
	}

	offset := doc.Index.PositionToOffset(params.Position)
	featCtx := cursor.NewLatex(doc.Latex.Root, offset)
	if featCtx.IsNothing() {
		return nil, nil
	}

	name := labelNameAtCursor(featCtx.Node)
	if name == "" {
		return nil, nil
	}

	var out []protocol.DocumentHighlight
	textKind := protocol.DocumentHighlightKindText
	if def := latex.FindLabelDefinition(doc.Latex.Root, name); def != nil {
		writeKind := protocol.DocumentHighlightKindWrite
		out = append(out, protocol.DocumentHighlight{
			Range: doc.Index.RangeToLSP(def.Start, def.End),
			Kind:  &writeKind,
		})
	}
	for _, n := range doc.Latex.Root.Descendants() {
		if n.Kind != latex.LABEL_REFERENCE {
			continue
		}
		for _, ref := range latex.ReferenceNames(n) {
			if ref == name {
				out = append(out, protocol.DocumentHighlight{
					Range: doc.Index.RangeToLSP(n.Start, n.End),
					Kind:  &textKind,
				})
			}
		}
	}
	return out, nil
}
