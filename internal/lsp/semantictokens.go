package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls/texls/internal/server"
	"github.com/texls/texls/internal/syntax"
	"github.com/texls/texls/internal/syntax/latex"
	"github.com/texls/texls/internal/uri"
)

func tokenTypeIndex(name string) (uint32, bool) {
	for i, t := range server.SemanticTokenTypes {
		if t == name {
			return uint32(i), true
		}
	}
	return 0, false
}

var definitionModifierMask = func() uint32 {
	for i, m := range server.SemanticTokenModifiers {
		if m == "definition" {
			return 1 << uint32(i)
		}
	}
	return 0
}()

// SemanticTokensRange handles textDocument/semanticTokens/range, encoding
// command names, label keys, and citation keys within params.Range using
// the fixed legend advertised at initialize time (§6).
func SemanticTokensRange(req *RequestContext, params *protocol.SemanticTokensRangeParams) (*protocol.SemanticTokens, error) {
	u := uri.Parse(params.TextDocument.URI)
	doc := req.Server.Workspace().Get(u)
	if doc == nil || doc.Latex == nil {
		return nil, nil
	}

	start := doc.Index.PositionToOffset(params.Range.Start)
	end := doc.Index.PositionToOffset(params.Range.End)

	var tokens []semanticToken
	for _, n := range doc.Latex.Root.Descendants() {
		if n.Start < start || n.End > end {
			continue
		}
		tok, ok := classifyToken(n)
		if !ok {
			continue
		}
		tokens = append(tokens, tok)
	}

	return &protocol.SemanticTokens{Data: encodeSemanticTokens(doc, tokens)}, nil
}

type semanticToken struct {
	node      *syntax.Node
	typeName  string
	isDefName bool
}

func classifyToken(n *syntax.Node) (semanticToken, bool) {
	if n.Kind == latex.COMMAND_NAME {
		return semanticToken{node: n, typeName: "command"}, true
	}
	if n.Kind == latex.COMMENT {
		return semanticToken{node: n, typeName: "comment"}, true
	}
	if n.Kind == latex.WORD {
		if cmd := latex.EnclosingWordCommand(n); cmd != nil {
			switch cmd.Kind {
			case latex.LABEL_DEFINITION:
				return semanticToken{node: n, typeName: "label", isDefName: true}, true
			case latex.LABEL_REFERENCE:
				return semanticToken{node: n, typeName: "label"}, true
			case latex.CITATION:
				return semanticToken{node: n, typeName: "citationKey"}, true
			}
		}
	}
	return semanticToken{}, false
}

type lineColIndexer interface {
	OffsetToLineCol(offset int) (line, col int)
}

func encodeSemanticTokens(index lineColIndexer, tokens []semanticToken) []protocol.UInteger {
	data := make([]protocol.UInteger, 0, len(tokens)*5)
	prevLine, prevCol := 0, 0
	for _, t := range tokens {
		line, col := index.OffsetToLineCol(t.node.Start)
		typeIdx, ok := tokenTypeIndex(t.typeName)
		if !ok {
			continue
		}
		deltaLine := line - prevLine
		deltaCol := col
		if deltaLine == 0 {
			deltaCol = col - prevCol
		}
		var modifiers uint32
		if t.isDefName {
			modifiers = definitionModifierMask
		}
		data = append(data,
			protocol.UInteger(deltaLine),
			protocol.UInteger(deltaCol),
			protocol.UInteger(len(t.node.Text)),
			protocol.UInteger(typeIdx),
			protocol.UInteger(modifiers),
		)
		prevLine, prevCol = line, col
	}
	return data
}
