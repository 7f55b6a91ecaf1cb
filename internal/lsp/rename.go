package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls/texls/internal/cursor"
	"github.com/texls/texls/internal/syntax/latex"
	"github.com/texls/texls/internal/uri"
)

// PrepareRename handles textDocument/prepareRename: only a label
// definition or reference token may be renamed (§C supplemented rename).
func PrepareRename(req *RequestContext, params *protocol.PrepareRenameParams) (any, error) {
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
	return doc.Index.RangeToLSP(featCtx.Node.Start, featCtx.Node.End), nil
}

// Rename handles textDocument/rename: renaming a label edits every
// LABEL_DEFINITION and LABEL_REFERENCE naming it, and each endpoint of a
// LABEL_REFERENCE_RANGE that names it, across the reference
// document's own subset only, never documents outside that closure
// (§4.2, §C: renaming a label in foo.tex that bar.tex references, where
// foo.tex includes bar.tex, edits only foo.tex and bar.tex — not an
// unrelated baz.tex that separately references the same name).
func Rename(req *RequestContext, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
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
	changes := make(map[string][]protocol.TextEdit)
	for _, d := range subset {
		if d.Latex == nil {
			continue
		}
		var edits []protocol.TextEdit
		for _, n := range d.Latex.Root.Descendants() {
			switch n.Kind {
			case latex.LABEL_DEFINITION:
				if latex.LabelName(n) == name {
					if key := n.FirstChildOfKind(latex.CURLY_GROUP_WORD); key != nil {
						edits = append(edits, protocol.TextEdit{
							Range:   d.Index.RangeToLSP(key.Start, key.End),
							NewText: "{" + params.NewName + "}",
						})
					}
				}
			case latex.LABEL_REFERENCE:
				for _, ref := range latex.ReferenceNames(n) {
					if ref == name {
						if group := n.FirstChildOfKind(latex.CURLY_GROUP_WORD_LIST); group != nil {
							edits = append(edits, protocol.TextEdit{
								Range:   d.Index.RangeToLSP(group.Start, group.End),
								NewText: "{" + params.NewName + "}",
							})
						}
					}
				}
			case latex.LABEL_REFERENCE_RANGE:
				// from and to are separate groups, each edited when it matches
				for _, group := range n.ChildrenOfKind(latex.CURLY_GROUP_WORD) {
					if latex.Word(group) == name {
						edits = append(edits, protocol.TextEdit{
							Range:   d.Index.RangeToLSP(group.Start, group.End),
							NewText: "{" + params.NewName + "}",
						})
					}
				}
			}
		}
		if len(edits) > 0 {
			changes[d.Uri.String()] = edits
		}
	}

	if len(changes) == 0 {
		return nil, nil
	}
	return &protocol.WorkspaceEdit{Changes: changes}, nil
}
