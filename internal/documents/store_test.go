package documents_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls/texls/internal/documents"
	"github.com/texls/texls/internal/uri"
)

func TestStoreOpenGetClose(t *testing.T) {
	store := documents.NewStore()
	u := uri.FromPath("/proj/main.tex")

	assert.Nil(t, store.Get(u))

	doc := store.Open(u, `\section{Intro}`, documents.LanguageLatex)
	require.NotNil(t, doc)
	assert.Equal(t, doc.Text, store.Get(u).Text)
	require.NotNil(t, store.Get(u).Latex)

	store.Close(u)
	assert.Nil(t, store.Get(u))
}

func TestStoreOpenIdempotentFiresHandlerTwice(t *testing.T) {
	store := documents.NewStore()
	u := uri.FromPath("/proj/main.tex")

	var calls int
	store.RegisterOpenHandler(func(doc *documents.Document) { calls++ })

	store.Open(u, "hello", documents.LanguageLatex)
	store.Open(u, "hello", documents.LanguageLatex)

	assert.Equal(t, 2, calls)
}

func TestStoreRetainReleaseKeepsDependencyAlive(t *testing.T) {
	store := documents.NewStore()
	u := uri.FromPath("/proj/dep.tex")

	store.Retain(u)
	_, err := store.Load(u, `\section{Dep}`)
	require.NoError(t, err)
	require.NotNil(t, store.Get(u))

	store.Release(u)
	assert.Nil(t, store.Get(u))
}

func TestIncrementalSyncScenario(t *testing.T) {
	store := documents.NewStore()
	u := uri.FromPath("/proj/hello.tex")
	store.Open(u, "hello\nworld", documents.LanguageLatex)

	r1 := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 0, Character: 5},
	}
	doc, err := store.ApplyChange(u, []protocol.TextDocumentContentChangeEvent{
		{Range: &r1, Text: "HELLO"},
	})
	require.NoError(t, err)
	assert.Equal(t, "HELLO\nworld", doc.Text)

	r2 := protocol.Range{
		Start: protocol.Position{Line: 1, Character: 0},
		End:   protocol.Position{Line: 1, Character: 5},
	}
	doc, err = store.ApplyChange(u, []protocol.TextDocumentContentChangeEvent{
		{Range: &r2, Text: "WORLD"},
	})
	require.NoError(t, err)
	assert.Equal(t, "HELLO\nWORLD", doc.Text)
	assert.Equal(t, "HELLO\nWORLD", store.Get(u).Text)
}

func TestApplyChangeFullReplacement(t *testing.T) {
	store := documents.NewStore()
	u := uri.FromPath("/proj/x.tex")
	store.Open(u, "old", documents.LanguageLatex)

	doc, err := store.ApplyChange(u, []protocol.TextDocumentContentChangeEvent{{Text: "new"}})
	require.NoError(t, err)
	assert.Equal(t, "new", doc.Text)
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, documents.LanguageLatex, documents.DetectLanguage(uri.FromPath("/a/b.tex")))
	assert.Equal(t, documents.LanguageBibtex, documents.DetectLanguage(uri.FromPath("/a/b.bib")))
	assert.Equal(t, documents.LanguageBuildLog, documents.DetectLanguage(uri.FromPath("/a/b.log")))
	assert.Equal(t, documents.LanguageUnknown, documents.DetectLanguage(uri.FromPath("/a/b.txt")))
}
