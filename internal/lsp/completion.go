package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls/texls/internal/cursor"
	"github.com/texls/texls/internal/documents"
	"github.com/texls/texls/internal/syntax/bibtex"
	"github.com/texls/texls/internal/syntax/latex"
	"github.com/texls/texls/internal/uri"
)

// Completion handles textDocument/completion: inside a \ref{...} or
// \cite{...} argument, every label/citation key in the subset is offered
// (§6 trigger characters, §C supplemented completion).
func Completion(req *RequestContext, params *protocol.CompletionParams) (any, error) {
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
		return labelCompletions(subset), nil
	case latex.CITATION:
		return citationCompletions(subset), nil
	}
	return nil, nil
}

func labelCompletions(subset []*documents.Document) []protocol.CompletionItem {
	kind := protocol.CompletionItemKindReference
	var out []protocol.CompletionItem
	seen := make(map[string]bool)
	for _, doc := range subset {
		if doc.Latex == nil {
			continue
		}
		for _, n := range doc.Latex.Root.Descendants() {
			if n.Kind != latex.LABEL_DEFINITION {
				continue
			}
			name := latex.LabelName(n)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, protocol.CompletionItem{Label: name, Kind: &kind})
		}
	}
	return out
}

func citationCompletions(subset []*documents.Document) []protocol.CompletionItem {
	kind := protocol.CompletionItemKindReference
	var out []protocol.CompletionItem
	seen := make(map[string]bool)
	for _, doc := range subset {
		if doc.Bibtex == nil {
			continue
		}
		for _, entry := range bibtex.Entries(doc.Bibtex.Root) {
			key := bibtex.EntryKey(entry)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, protocol.CompletionItem{Label: key, Kind: &kind})
		}
	}
	return out
}

// CompletionResolve handles completionItem/resolve: a no-op here since
// this server's completion items are already fully populated at request
// time (§6: resolve support advertised for forward compatibility).
func CompletionResolve(req *RequestContext, item *protocol.CompletionItem) (*protocol.CompletionItem, error) {
	return item, nil
}
