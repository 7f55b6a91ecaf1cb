package lsp

import (
	"context"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls/texls/internal/citeproc"
	"github.com/texls/texls/internal/cursor"
	"github.com/texls/texls/internal/documents"
	"github.com/texls/texls/internal/label"
	"github.com/texls/texls/internal/syntax"
	"github.com/texls/texls/internal/syntax/latex"
	"github.com/texls/texls/internal/uri"
)

// Hover handles textDocument/hover (§4.6, §4.7, §4.9): the active token at
// the cursor determines what, if anything, is shown — a rendered label
// description for a \ref, a rendered citation for a \cite key, or a
// BibTeX entry-type/string-macro description inside a .bib file.
func Hover(req *RequestContext, params *protocol.HoverParams) (*protocol.Hover, error) {
	u := uri.Parse(params.TextDocument.URI)
	doc := req.Server.Workspace().Get(u)
	if doc == nil {
		return nil, nil
	}

	offset := doc.Index.PositionToOffset(params.Position)
	featCtx := cursor.NewContext(doc, offset)
	if featCtx.Cursor.IsNothing() {
		return nil, nil
	}

	if doc.Bibtex != nil {
		return hoverBibtex(featCtx, doc)
	}
	return hoverLatex(req, featCtx, u)
}

func hoverBibtex(featCtx *cursor.Context, doc *documents.Document) (*protocol.Hover, error) {
	hover := cursor.DetectBibtexHover(featCtx.Cursor, doc.Bibtex.Root)
	if hover == nil {
		return nil, nil
	}

	var text string
	switch hover.Kind {
	case cursor.BibtexHoverEntryType:
		text = "**@" + hover.EntryType + "**\n\nRequired: " + joinOrNone(hover.RequiredFields) +
			"\n\nOptional: " + joinOrNone(hover.OptionalFields)
	case cursor.BibtexHoverStringRef:
		text = "**" + hover.StringName + "** = " + hover.StringValue
	default:
		return nil, nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: text},
	}, nil
}

func joinOrNone(fields []string) string {
	if len(fields) == 0 {
		return "none"
	}
	out := fields[0]
	for _, f := range fields[1:] {
		out += ", " + f
	}
	return out
}

func hoverLatex(req *RequestContext, featCtx *cursor.Context, u uri.Uri) (*protocol.Hover, error) {
	cmd := latex.EnclosingWordCommand(featCtx.Cursor.Node)
	if cmd == nil {
		return nil, nil
	}
	switch cmd.Kind {
	case latex.LABEL_REFERENCE:
		return hoverLabel(req, u, cmd)
	case latex.CITATION:
		names := latex.ReferenceNames(cmd)
		if len(names) == 0 {
			return nil, nil
		}
		return hoverCitation(req, u, names[0])
	}
	return nil, nil
}

func hoverLabel(req *RequestContext, u uri.Uri, ref *syntax.Node) (*protocol.Hover, error) {
	names := latex.ReferenceNames(ref)
	if len(names) == 0 {
		return nil, nil
	}
	subset := req.Server.Workspace().Subset(u)
	rendered := label.Render(subset, names[0])
	if rendered == nil {
		return nil, nil
	}

	text := rendered.Prefix
	if rendered.Number != "" {
		if rendered.Kind == label.KindEquation {
			text += " (" + rendered.Number + ")"
		} else {
			text += " " + rendered.Number
		}
	}
	if rendered.Text != "" {
		text += ": " + rendered.Text
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: text},
	}, nil
}

func hoverCitation(req *RequestContext, u uri.Uri, key string) (*protocol.Hover, error) {
	subset := req.Server.Workspace().Subset(u)
	cfg := req.Server.Config()
	convert := citeproc.ExternalConverter(citeproc.ConverterConfig{
		Executable: cfg.Citeproc.Executable,
		Args:       cfg.Citeproc.Args,
	})
	for _, doc := range subset {
		if doc.Bibtex == nil {
			continue
		}
		md := citeproc.RenderCitation(context.Background(), convert, doc.Bibtex.Root, key)
		if md == "" {
			continue
		}
		return &protocol.Hover{
			Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: md},
		}, nil
	}
	return nil, nil
}
