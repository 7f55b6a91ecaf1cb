package lsp

import (
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texls/texls/internal/documents"
	"github.com/texls/texls/internal/uri"
)

// openFixture opens text under u in a fresh server's workspace and
// returns the server plus a RequestContext for handlers under test.
func openFixture(t *testing.T, path, text string) (*Server, *RequestContext, uri.Uri) {
	t.Helper()
	s, err := NewServer()
	require.NoError(t, err)
	u := uri.FromPath(path)
	lang := documents.DetectLanguage(u)
	doc := s.Workspace().Open(u, text, lang)
	require.NotNil(t, doc)
	req := NewRequestContext(s, nil)
	return s, req, u
}

// positionAt returns the LSP position one byte past the start of
// needle's first occurrence in text, i.e. inside the needle.
func positionAt(doc *documents.Document, text, needle string) protocol.Position {
	idx := strings.Index(text, needle)
	if idx < 0 {
		panic("needle not found: " + needle)
	}
	return doc.Index.OffsetToPosition(idx + 1)
}

const labelFixture = `\section{Intro}
\label{sec:intro}
See \ref{sec:intro} for details.
`

func TestDefinitionJumpsToLabel(t *testing.T) {
	s, req, u := openFixture(t, "/proj/main.tex", labelFixture)
	doc := s.Workspace().Get(u)

	pos := positionAt(doc, labelFixture, "sec:intro} for")
	loc, err := Definition(req, &protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: u.String()},
			Position:     pos,
		},
	})
	require.NoError(t, err)
	result, ok := loc.(*protocol.Location)
	require.True(t, ok)
	require.NotNil(t, result)
	assert.Equal(t, u.String(), result.URI)
}

func TestReferencesFindsUsage(t *testing.T) {
	s, req, u := openFixture(t, "/proj/main.tex", labelFixture)
	doc := s.Workspace().Get(u)

	pos := positionAt(doc, labelFixture, "\\label{sec:intro")
	locs, err := References(req, &protocol.ReferenceParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: u.String()},
			Position:     pos,
		},
		Context: protocol.ReferenceContext{IncludeDeclaration: true},
	})
	require.NoError(t, err)
	require.Len(t, locs, 2)
}

func TestDocumentHighlightMarksDefinitionAndReference(t *testing.T) {
	s, req, u := openFixture(t, "/proj/main.tex", labelFixture)
	doc := s.Workspace().Get(u)

	pos := positionAt(doc, labelFixture, "\\ref{sec:intro")
	highlights, err := DocumentHighlight(req, &protocol.DocumentHighlightParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: u.String()},
			Position:     pos,
		},
	})
	require.NoError(t, err)
	require.Len(t, highlights, 2)
}

func TestPrepareRenameAndRenameUpdateReferenceAndDefinition(t *testing.T) {
	s, req, u := openFixture(t, "/proj/main.tex", labelFixture)
	doc := s.Workspace().Get(u)

	pos := positionAt(doc, labelFixture, "\\ref{sec:intro")
	prepareResult, err := PrepareRename(req, &protocol.PrepareRenameParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: u.String()},
			Position:     pos,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, prepareResult)

	edit, err := Rename(req, &protocol.RenameParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: u.String()},
			Position:     pos,
		},
		NewName: "sec:introduction",
	})
	require.NoError(t, err)
	require.NotNil(t, edit)
	edits, ok := edit.Changes[u.String()]
	require.True(t, ok)
	assert.Len(t, edits, 2)
	for _, e := range edits {
		assert.Equal(t, "{sec:introduction}", e.NewText)
	}
}

const citationFixture = `@article{knuth1984,
  author = {Donald Knuth},
  title = {Literate Programming},
  journal = {The Computer Journal},
  year = {1984},
}
`

func TestCompletionOffersLabelsInsideRef(t *testing.T) {
	s, req, u := openFixture(t, "/proj/main.tex", labelFixture)
	doc := s.Workspace().Get(u)

	pos := positionAt(doc, labelFixture, "\\ref{sec:intro")
	result, err := Completion(req, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: u.String()},
			Position:     pos,
		},
	})
	require.NoError(t, err)
	items, ok := result.([]protocol.CompletionItem)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "sec:intro", items[0].Label)
}

func TestCompletionOffersCitationKeysInsideCite(t *testing.T) {
	biburi := uri.FromPath("/proj/refs.bib")
	cfUri := uri.FromPath("/proj/main.tex")
	text := `\cite{knuth1984}`

	s, err := NewServer()
	require.NoError(t, err)
	s.Workspace().Open(biburi, citationFixture, documents.LanguageBibtex)
	doc := s.Workspace().Open(cfUri, text, documents.LanguageLatex)
	req := NewRequestContext(s, nil)

	pos := positionAt(doc, text, "knuth1984")
	result, err := Completion(req, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: cfUri.String()},
			Position:     pos,
		},
	})
	require.NoError(t, err)
	items, ok := result.([]protocol.CompletionItem)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "knuth1984", items[0].Label)
}

func TestHoverOnBibtexEntryType(t *testing.T) {
	s, req, u := openFixture(t, "/proj/refs.bib", citationFixture)
	doc := s.Workspace().Get(u)

	pos := positionAt(doc, citationFixture, "@article")
	hover, err := Hover(req, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: u.String()},
			Position:     pos,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hover)
}

func TestDocumentSymbolListsSections(t *testing.T) {
	s, req, u := openFixture(t, "/proj/main.tex", labelFixture)

	result, err := DocumentSymbol(req, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: u.String()},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result)
}

func TestFormattingSkipsWhenUnconfigured(t *testing.T) {
	_, req, u := openFixture(t, "/proj/main.tex", labelFixture)

	edits, err := Formatting(req, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: u.String()},
	})
	require.NoError(t, err)
	assert.Nil(t, edits)
}
