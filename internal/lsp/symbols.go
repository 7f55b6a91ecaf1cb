package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls/texls/internal/syntax"
	"github.com/texls/texls/internal/syntax/bibtex"
	"github.com/texls/texls/internal/syntax/latex"
	"github.com/texls/texls/internal/uri"
	"github.com/texls/texls/internal/workspace"
)

// DocumentSymbol handles textDocument/documentSymbol: sections (and
// subsections, nested) for a LaTeX document, entries for a BibTeX one
// (§C supplemented structure outline).
func DocumentSymbol(req *RequestContext, params *protocol.DocumentSymbolParams) (any, error) {
	u := uri.Parse(params.TextDocument.URI)
	doc := req.Server.Workspace().Get(u)
	if doc == nil {
		return nil, nil
	}

	switch {
	case doc.Latex != nil:
		return latexSectionSymbols(doc.Latex.Root, doc.Index), nil
	case doc.Bibtex != nil:
		return bibtexEntrySymbols(doc.Bibtex.Root, doc.Index), nil
	}
	return nil, nil
}

type lineIndexer interface {
	RangeToLSP(start, end int) protocol.Range
}

func latexSectionSymbols(root *syntax.Node, index lineIndexer) []protocol.DocumentSymbol {
	return childSectionSymbols(root, index)
}

func sectionSymbol(n *syntax.Node, index lineIndexer) (protocol.DocumentSymbol, bool) {
	prefix := latex.SectionPrefix(n.Kind)
	if prefix == "" {
		return protocol.DocumentSymbol{}, false
	}
	title := latex.SectionTitleText(n)
	rng := index.RangeToLSP(n.Start, n.End)
	return protocol.DocumentSymbol{
		Name:           title,
		Detail:         strPtr(prefix),
		Kind:           protocol.SymbolKindNamespace,
		Range:          rng,
		SelectionRange: rng,
		Children:       childSectionSymbols(n, index),
	}, true
}

// childSectionSymbols returns a symbol for each nearest section below n;
// deeper sections appear only under their own enclosing section.
func childSectionSymbols(n *syntax.Node, index lineIndexer) []protocol.DocumentSymbol {
	var out []protocol.DocumentSymbol
	for _, c := range n.Children {
		if sym, ok := sectionSymbol(c, index); ok {
			out = append(out, sym)
			continue
		}
		out = append(out, childSectionSymbols(c, index)...)
	}
	return out
}

func bibtexEntrySymbols(root *syntax.Node, index lineIndexer) []protocol.DocumentSymbol {
	var out []protocol.DocumentSymbol
	for _, entry := range bibtex.Entries(root) {
		key := bibtex.EntryKey(entry)
		entryType := ""
		if t := bibtex.EntryType(entry); t != nil {
			entryType = bibtex.EntryTypeText(t)
		}
		rng := index.RangeToLSP(entry.Start, entry.End)
		out = append(out, protocol.DocumentSymbol{
			Name:           key,
			Detail:         strPtr("@" + entryType),
			Kind:           protocol.SymbolKindStruct,
			Range:          rng,
			SelectionRange: rng,
		})
	}
	return out
}

// WorkspaceSymbol handles workspace/symbol: every label definition and
// bibliography entry across all loaded documents whose name contains
// query (case-insensitive). The search covers the whole workspace, not
// just the active subset.
func WorkspaceSymbol(req *RequestContext, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	query := strings.ToLower(params.Query)
	var out []protocol.SymbolInformation
	for _, doc := range req.Server.Workspace().Documents() {
		switch {
		case doc.Latex != nil:
			for _, n := range doc.Latex.Root.Descendants() {
				if n.Kind != latex.LABEL_DEFINITION {
					continue
				}
				name := latex.LabelName(n)
				if query != "" && !strings.Contains(strings.ToLower(name), query) {
					continue
				}
				out = append(out, protocol.SymbolInformation{
					Name: name,
					Kind: protocol.SymbolKindKey,
					Location: protocol.Location{
						URI:   doc.Uri.String(),
						Range: doc.Index.RangeToLSP(n.Start, n.End),
					},
				})
			}
		case doc.Bibtex != nil:
			for _, entry := range bibtex.Entries(doc.Bibtex.Root) {
				key := bibtex.EntryKey(entry)
				if query != "" && !strings.Contains(strings.ToLower(key), query) {
					continue
				}
				out = append(out, protocol.SymbolInformation{
					Name: key,
					Kind: protocol.SymbolKindStruct,
					Location: protocol.Location{
						URI:   doc.Uri.String(),
						Range: doc.Index.RangeToLSP(entry.Start, entry.End),
					},
				})
			}
		}
	}
	return out, nil
}

// FoldingRange handles textDocument/foldingRange: every environment and
// section spans foldable regions (§C).
func FoldingRange(req *RequestContext, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	u := uri.Parse(params.TextDocument.URI)
	doc := req.Server.Workspace().Get(u)
	if doc == nil || doc.Latex == nil {
		return nil, nil
	}

	var out []protocol.FoldingRange
	for _, n := range doc.Latex.Root.Descendants() {
		if n.Kind != latex.ENVIRONMENT && latex.SectionPrefix(n.Kind) == "" {
			continue
		}
		startLine, _ := doc.Index.OffsetToLineCol(n.Start)
		endLine, _ := doc.Index.OffsetToLineCol(n.End)
		if endLine <= startLine {
			continue
		}
		out = append(out, protocol.FoldingRange{
			StartLine: protocol.UInteger(startLine),
			EndLine:   protocol.UInteger(endLine),
		})
	}
	return out, nil
}

// DocumentLink handles textDocument/documentLink: every \include,
// \input, and bibliography directive resolves to the first existing
// workspace.Candidates target (§4.2, §C).
func DocumentLink(req *RequestContext, params *protocol.DocumentLinkParams) ([]protocol.DocumentLink, error) {
	u := uri.Parse(params.TextDocument.URI)
	doc := req.Server.Workspace().Get(u)
	if doc == nil || doc.Latex == nil {
		return nil, nil
	}

	var out []protocol.DocumentLink
	for _, n := range doc.Latex.Root.Descendants() {
		var kind string
		switch n.Kind {
		case latex.INCLUDE:
			kind = "include"
		case latex.BIBLATEX_INCLUDE:
			kind = "bibliography"
		default:
			continue
		}
		for _, raw := range latex.IncludePaths(n) {
			for _, cand := range workspace.Candidates(doc.Uri, raw, kind) {
				if req.Server.Workspace().Has(cand) {
					target := cand.String()
					out = append(out, protocol.DocumentLink{
						Range:  doc.Index.RangeToLSP(n.Start, n.End),
						Target: &target,
					})
					break
				}
			}
		}
	}
	return out, nil
}
