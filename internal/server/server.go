// Package server builds the fixed ServerCapabilities advertised at
// initialize time (§6: "Server capabilities advertised (fixed set)").
// Grounded on the teacher's internal/server.Server.Initialize, which
// built a protocol.ServerCapabilities literal the same way; generalized
// from the teacher's CSS/token-specific capability set to this server's
// fixed LaTeX/BibTeX surface.
package server

import (
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// TriggerCharacters are the characters that start completion (§6).
var TriggerCharacters = []string{"\\", "{", "}", "@", "/", " "}

// SemanticTokenTypes is the fixed legend advertised for
// textDocument/semanticTokens/range (§6).
var SemanticTokenTypes = []string{"command", "label", "citationKey", "comment"}

// SemanticTokenModifiers is the fixed modifier legend advertised
// alongside SemanticTokenTypes.
var SemanticTokenModifiers = []string{"definition"}

// Capabilities builds the fixed ServerCapabilities this server always
// advertises, independent of any client capability negotiation (§6).
func Capabilities() protocol.ServerCapabilities {
	syncKind := protocol.TextDocumentSyncKindIncremental
	trueVal := true
	return protocol.ServerCapabilities{
		TextDocumentSync: protocol.TextDocumentSyncOptions{
			OpenClose: boolPtr(true),
			Change:    &syncKind,
			Save: &protocol.SaveOptions{
				IncludeText: boolPtr(false),
			},
		},
		HoverProvider: true,
		CompletionProvider: &protocol.CompletionOptions{
			ResolveProvider:   boolPtr(true),
			TriggerCharacters: TriggerCharacters,
		},
		DefinitionProvider:       true,
		ReferencesProvider:       true,
		DocumentSymbolProvider:   true,
		DocumentHighlightProvider: true,
		DocumentLinkProvider: &protocol.DocumentLinkOptions{
			ResolveProvider: boolPtr(false),
		},
		FoldingRangeProvider:    true,
		DocumentFormattingProvider: true,
		RenameProvider: &protocol.RenameOptions{
			PrepareProvider: &trueVal,
		},
		WorkspaceSymbolProvider: true,
		SemanticTokensProvider: &protocol.SemanticTokensOptions{
			Legend: protocol.SemanticTokensLegend{
				TokenTypes:     SemanticTokenTypes,
				TokenModifiers: SemanticTokenModifiers,
			},
			Range: true,
		},
	}
}

func boolPtr(b bool) *bool {
	return &b
}
